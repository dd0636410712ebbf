package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("storage: key not found")
	// ErrStorageFull is returned by Set when a capacity budget is exceeded.
	ErrStorageFull = errors.New("storage: capacity exceeded")
)

// Adapter is the key-value persistence boundary. Stores serialize their full
// state as one value under one key, so an adapter only needs whole-value
// get/set plus delete for cleanup.
type Adapter interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by adapters backed by a remote system.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping probes the adapter if it supports it; local adapters are always ok.
func Ping(ctx context.Context, a Adapter) error {
	if p, ok := a.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
