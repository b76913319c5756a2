package kv

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/storefront/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerStore fails fast with gobreaker.ErrOpenState while the wrapped
// backend keeps failing. ErrNotFound is an answer, not a failure, and a
// canceled or expired caller context says nothing about the backend.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerStore(next Store, name string, maxFailures uint32, openTimeout time.Duration, logger *zap.Logger) *BreakerStore {
	return &BreakerStore{
		next: next,
		cb: circuitbreaker.New[string](circuitbreaker.Config{
			Name:        name,
			MaxFailures: maxFailures,
			OpenTimeout: openTimeout,
			IsSuccessful: func(err error) bool {
				return err == nil ||
					errors.Is(err, ErrNotFound) ||
					errors.Is(err, context.Canceled) ||
					errors.Is(err, context.DeadlineExceeded)
			},
		}, logger),
	}
}

func (b *BreakerStore) Get(ctx context.Context, key string) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.Get(ctx, key)
	})
}

func (b *BreakerStore) Set(ctx context.Context, key, value string) error {
	_, err := b.cb.Execute(func() (string, error) {
		return "", b.next.Set(ctx, key, value)
	})
	return err
}

func (b *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() (string, error) {
		return "", b.next.Delete(ctx, key)
	})
	return err
}

func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}
