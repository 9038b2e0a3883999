package contract

import (
	"context"

	"kelly-ai-client/internal/entity"
)

type ConversationRepository interface {
	// LoadAll returns nil, nil when nothing has been stored yet.
	LoadAll(ctx context.Context) ([]*entity.Conversation, error)
	// SaveAll replaces the stored list with the given one.
	SaveAll(ctx context.Context, conversations []*entity.Conversation) error
}
