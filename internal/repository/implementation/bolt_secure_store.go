package implementation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kelly-ai-client/internal/repository/contract"

	bolt "go.etcd.io/bbolt"
)

var secureBucket = []byte("secure_store")

// BoltSecureStore keeps every value in one bucket of a single bbolt file.
type BoltSecureStore struct {
	db *bolt.DB
}

var _ contract.SecureStore = &BoltSecureStore{}

func NewBoltSecureStore(path string) (*BoltSecureStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(secureBucket)
		return e
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltSecureStore{db: db}, nil
}

func (s *BoltSecureStore) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(secureBucket).Get([]byte(key))
		if v != nil {
			// v is only valid inside the transaction
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("bolt get %s: %w", key, err)
	}
	return value, found, nil
}

func (s *BoltSecureStore) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(secureBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("bolt set %s: %w", key, err)
	}
	return nil
}

func (s *BoltSecureStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(secureBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("bolt delete %s: %w", key, err)
	}
	return nil
}

func (s *BoltSecureStore) Close() error {
	return s.db.Close()
}
