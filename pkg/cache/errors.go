package cache

import (
	"context"
	"errors"
	"net"
	"time"
)

// Sentinel errors for caching operations. Neither is fatal to a run: the
// pipeline reports them through the cache hooks and recomputes.
var (
	// ErrNetwork is returned when a remote backend cannot be reached.
	ErrNetwork = errors.New("cache unreachable")

	// ErrCorrupt marks a cached value that cannot be decoded.
	ErrCorrupt = errors.New("corrupt cache entry")
)

// IsTransient reports whether err is a network failure worth retrying.
func IsTransient(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// retry calls fn up to attempts times while it fails transiently, doubling
// delay after each failure.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
