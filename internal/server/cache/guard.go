package cache

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/resilience"
)

// GuardedStore fails fast with resilience.ErrCircuitOpen once the wrapped
// store keeps failing. Misses, as judged by isMiss, do not count as
// failures.
type GuardedStore struct {
	store   Store
	breaker *resilience.Breaker
}

func NewGuardedStore(store Store, isMiss func(error) bool, cfg resilience.Config) *GuardedStore {
	cfg.IsFailure = func(err error) bool { return err != nil && !isMiss(err) }
	return &GuardedStore{store: store, breaker: resilience.New("result-cache", cfg)}
}

func (g *GuardedStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := g.breaker.Do(func() error {
		var err error
		value, err = g.store.Get(ctx, key)
		return err
	})
	return value, err
}

func (g *GuardedStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return g.breaker.Do(func() error {
		return g.store.Set(ctx, key, value, ttl)
	})
}

// FlushByPattern bypasses the breaker so an operator can always invalidate.
func (g *GuardedStore) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	return g.store.FlushByPattern(ctx, pattern)
}

func (g *GuardedStore) State() resilience.State {
	return g.breaker.State()
}
