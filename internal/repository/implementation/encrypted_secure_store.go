package implementation

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"kelly-ai-client/internal/repository/contract"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var ErrSealedValueCorrupt = errors.New("sealed value cannot be opened")

// Argon2id parameters for deriving the store key from a passphrase.
const (
	kdfSalt    = "kelly-ai-secure-store"
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
)

// EncryptedSecureStore seals every value with XChaCha20-Poly1305 before it
// reaches the wrapped store. The key name is bound as associated data so a
// value copied under another key fails to open.
type EncryptedSecureStore struct {
	inner contract.SecureStore
	key   []byte
}

var _ contract.SecureStore = &EncryptedSecureStore{}

func NewEncryptedSecureStore(inner contract.SecureStore, passphrase string) (*EncryptedSecureStore, error) {
	if passphrase == "" {
		return nil, errors.New("encrypted store requires a passphrase")
	}
	key := argon2.IDKey([]byte(passphrase), []byte(kdfSalt), kdfTime, kdfMemory, kdfThreads, chacha20poly1305.KeySize)
	return &EncryptedSecureStore{inner: inner, key: key}, nil
}

func (s *EncryptedSecureStore) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, found, err := s.inner.Get(ctx, key)
	if err != nil || !found {
		return "", found, err
	}
	plain, err := s.open(key, sealed)
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w", key, err)
	}
	return plain, true, nil
}

func (s *EncryptedSecureStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.seal(key, value)
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *EncryptedSecureStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *EncryptedSecureStore) seal(key, value string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(value)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *EncryptedSecureStore) open(key, sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrSealedValueCorrupt
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrSealedValueCorrupt
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return "", ErrSealedValueCorrupt
	}
	return string(plain), nil
}
