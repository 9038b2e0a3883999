package contract

import (
	"context"

	"kelly-ai-client/internal/entity"
)

type CredentialRepository interface {
	Save(ctx context.Context, session *entity.AuthSession) error
	AccessToken(ctx context.Context) (string, bool, error)
	UserId(ctx context.Context) (string, error)
	UserEmail(ctx context.Context) (string, error)
	// Clear attempts every key and returns the joined errors.
	Clear(ctx context.Context) error
}
