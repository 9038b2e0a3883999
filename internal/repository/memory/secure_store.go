package memory

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// SecureStore keeps values in process memory. Nothing survives a restart, so it
// backs tests and throwaway sessions.
type SecureStore struct {
	cache *cache.Cache
}

func NewSecureStore() *SecureStore {
	// Values never expire; the janitor is disabled.
	c := cache.New(cache.NoExpiration, 0)
	return &SecureStore{
		cache: c,
	}
}

func (s *SecureStore) Get(_ context.Context, key string) (string, bool, error) {
	if x, found := s.cache.Get(key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (s *SecureStore) Set(_ context.Context, key, value string) error {
	s.cache.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *SecureStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
