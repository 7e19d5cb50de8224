package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	value := []byte(`[{"id":"1"}]`)
	require.NoError(t, store.Put(ctx, "registrations", value))
	value[0] = 'x'

	got, err := store.Get(ctx, "registrations")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	got[0] = 'y'
	again, err := store.Get(ctx, "registrations")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(again))
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(ctx, "registrations")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "registrations", []byte("[]")))
	require.NoError(t, store.Put(ctx, "registrations", []byte(`[{"id":"a"}]`)))

	got, err := store.Get(ctx, "registrations")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))

	onDisk, err := os.ReadFile(store.Path("registrations"))
	require.NoError(t, err)
	assert.Equal(t, got, onDisk)
}

func TestLocalStorageRejectsPathKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		assert.Error(t, store.Put(context.Background(), key, []byte("x")), key)
	}
}

func TestInstrumentObservesOperations(t *testing.T) {
	ctx := context.Background()
	var ops []string
	store := Instrument(NewMemoryStorage(), func(op string, _ time.Duration) {
		ops = append(ops, op)
	})

	require.NoError(t, store.Put(ctx, "registrations", []byte(`[]`)))
	_, err := store.Get(ctx, "registrations")
	require.NoError(t, err)
	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"put", "get", "get"}, ops)
}

func TestInstrumentWithoutObserver(t *testing.T) {
	base := NewMemoryStorage()
	assert.Same(t, base, Instrument(base, nil))
}
