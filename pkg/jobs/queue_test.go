package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueCoalescesPendingKeys(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})
	var refreshes int32

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		if job.Key == "block" {
			close(started)
			<-unblock
			return nil
		}
		atomic.AddInt32(&refreshes, 1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 4})
	q.Start(context.Background())
	defer q.Stop()

	ok, err := q.Enqueue(Job{Key: "block"})
	require.NoError(t, err)
	require.True(t, ok)
	<-started

	ok, err = q.Enqueue(Job{Key: "refresh"})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = q.Enqueue(Job{Key: "refresh"})
	require.NoError(t, err)
	assert.False(t, ok, "second pending refresh should be coalesced")

	close(unblock)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&refreshes) == 1 }, time.Second, 5*time.Millisecond)

	ok, err = q.Enqueue(Job{Key: "refresh"})
	require.NoError(t, err)
	assert.True(t, ok, "key is released once the job ran")
	require.Eventually(t, func() bool { return atomic.LoadInt32(&refreshes) == 2 }, time.Second, 5*time.Millisecond)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var attempts int32
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return errors.New("storage unavailable")
		}
		return nil
	}, QueueConfig{MaxRetries: 2, RetryDelay: 10 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(Job{ID: "job-1"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&attempts) == 2 }, time.Second, 5*time.Millisecond)
}

func TestQueueRejectsWhenStopped(t *testing.T) {
	q := NewQueue("stopped", func(context.Context, Job) error { return nil }, QueueConfig{})
	_, err := q.Enqueue(Job{Key: "refresh"})
	require.ErrorIs(t, err, ErrQueueStopped)

	q.Start(context.Background())
	q.Stop()
	_, err = q.Enqueue(Job{Key: "refresh"})
	require.ErrorIs(t, err, ErrQueueStopped)
}
