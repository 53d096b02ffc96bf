package s1_universe

import (
	"context"
	"fmt"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/pkg/redis"
)

// StateStore persists a selector's State in Redis so the liquidity cache
// and cycle marker survive restarts.
type StateStore struct {
	cache *redis.Cache
	key   string
}

// NewStateStore creates a store for one selector instance.
// Distinct instances must use distinct keys.
func NewStateStore(client *redis.Client, key string) *StateStore {
	return &StateStore{
		cache: redis.NewCache(client, "universe"),
		key:   key,
	}
}

// Load returns the stored state, or an empty state if none was saved
func (s *StateStore) Load(ctx context.Context) (*State, error) {
	state := NewState()
	found, err := s.cache.Get(ctx, s.key, state)
	if err != nil {
		return nil, fmt.Errorf("load selector state: %w", err)
	}
	if !found {
		return NewState(), nil
	}
	if state.Liquidity == nil {
		state.Liquidity = LiquidityCache{}
	}
	return state, nil
}

// Save overwrites the stored state
func (s *StateStore) Save(ctx context.Context, state *State) error {
	if err := s.cache.Set(ctx, s.key, state, 0); err != nil {
		return fmt.Errorf("save selector state: %w", err)
	}
	return nil
}

func (s *StateStore) publishedKey() string {
	return s.key + ":published"
}

// LoadUniverse returns the last published universe, or nil if none was saved
func (s *StateStore) LoadUniverse(ctx context.Context) (*contracts.Universe, error) {
	var u contracts.Universe
	found, err := s.cache.Get(ctx, s.publishedKey(), &u)
	if err != nil {
		return nil, fmt.Errorf("load published universe: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

// SaveUniverse overwrites the published universe
func (s *StateStore) SaveUniverse(ctx context.Context, u *contracts.Universe) error {
	if err := s.cache.Set(ctx, s.publishedKey(), u, 0); err != nil {
		return fmt.Errorf("save published universe: %w", err)
	}
	return nil
}

// Reset removes the stored state and published universe.
// The next cycle recomputes from scratch even inside an already computed period.
func (s *StateStore) Reset(ctx context.Context) error {
	for _, key := range []string{s.key, s.publishedKey()} {
		if err := s.cache.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset selector state: %w", err)
		}
	}
	return nil
}
