package implementation

import (
	"context"
	"errors"
	"fmt"

	"kelly-ai-client/internal/constant"
	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/repository/contract"
)

type credentialRepository struct {
	store contract.SecureStore
}

func NewCredentialRepository(store contract.SecureStore) contract.CredentialRepository {
	return &credentialRepository{store: store}
}

// Save writes the tokens only when the server issued them; the bare user
// response carries id and email alone.
func (r *credentialRepository) Save(ctx context.Context, session *entity.AuthSession) error {
	type entry struct{ key, value string }

	var entries []entry
	if session.AccessToken != "" {
		entries = append(entries,
			entry{constant.StoreKeyAccessToken, session.AccessToken},
			entry{constant.StoreKeyRefreshToken, session.RefreshToken},
		)
	}
	entries = append(entries,
		entry{constant.StoreKeyUserId, session.UserId},
		entry{constant.StoreKeyUserEmail, session.UserEmail},
	)

	for _, e := range entries {
		if err := r.store.Set(ctx, e.key, e.value); err != nil {
			return fmt.Errorf("store %s: %w", e.key, err)
		}
	}
	return nil
}

func (r *credentialRepository) AccessToken(ctx context.Context) (string, bool, error) {
	token, found, err := r.store.Get(ctx, constant.StoreKeyAccessToken)
	if err != nil {
		return "", false, err
	}
	return token, found && token != "", nil
}

func (r *credentialRepository) UserId(ctx context.Context) (string, error) {
	v, _, err := r.store.Get(ctx, constant.StoreKeyUserId)
	return v, err
}

func (r *credentialRepository) UserEmail(ctx context.Context) (string, error) {
	v, _, err := r.store.Get(ctx, constant.StoreKeyUserEmail)
	return v, err
}

func (r *credentialRepository) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range constant.SessionStoreKeys {
		if err := r.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
