package realtime

import (
	"context"
	"sync"
)

// Notifier carries "registration collection changed" signals between writers and the dashboard feed.
type Notifier interface {
	Publish(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}

// LocalNotifier delivers change signals within one process.
type LocalNotifier struct {
	mu   sync.Mutex
	next int
	subs map[int]chan struct{}
}

// NewLocalNotifier creates an in-process notifier.
func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{subs: make(map[int]chan struct{})}
}

// Publish signals every subscriber. Signals coalesce while a subscriber has one pending.
func (n *LocalNotifier) Publish(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of signals that is closed when ctx ends.
func (n *LocalNotifier) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = ch
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.subs, id)
		close(ch)
		n.mu.Unlock()
	}()
	return ch, nil
}
