package cache

import (
	"context"
)

// Store is a shared byte cache keyed by KeyBuilder output. Implementations
// must be safe for concurrent use by many workers. Duplicate computation on
// a race is tolerated: embeddings are a pure function of frame content, so
// last-writer-wins is harmless.
type Store interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss. A failed Set does not discard the computed value; the next
// caller simply recomputes.
func GetOrCompute(ctx context.Context, s Store, key string, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	value, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		return value, nil
	}

	value, err = compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.Set(ctx, key, value); err != nil {
		return value, err
	}
	return value, nil
}
