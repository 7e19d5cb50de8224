package storage

import (
	"context"
	"time"
)

// Observer receives the duration of each backend operation ("get" or "put").
type Observer func(operation string, duration time.Duration)

type instrumented struct {
	next    BlobStore
	observe Observer
}

// Instrument wraps store so every Get and Put is timed. A nil observer returns store unchanged.
func Instrument(store BlobStore, observe Observer) BlobStore {
	if observe == nil {
		return store
	}
	return &instrumented{next: store, observe: observe}
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, key)
	s.observe("get", time.Since(start))
	return value, err
}

func (s *instrumented) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Put(ctx, key, value)
	s.observe("put", time.Since(start))
	return err
}
