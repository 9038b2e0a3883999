package implementation

import (
	"context"
	"encoding/json"
	"fmt"

	"kelly-ai-client/internal/constant"
	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/mapper"
	"kelly-ai-client/internal/model"
	"kelly-ai-client/internal/repository/contract"
)

// conversationRepository stores the whole list as one JSON document under a
// single secure store key.
type conversationRepository struct {
	store  contract.SecureStore
	mapper *mapper.ConversationMapper
}

func NewConversationRepository(store contract.SecureStore) contract.ConversationRepository {
	return &conversationRepository{
		store:  store,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *conversationRepository) LoadAll(ctx context.Context) ([]*entity.Conversation, error) {
	raw, found, err := r.store.Get(ctx, constant.StoreKeyConversations)
	if err != nil {
		return nil, fmt.Errorf("read conversations: %w", err)
	}
	if !found || raw == "" {
		return nil, nil
	}

	var records []model.ConversationRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}

	conversations, err := r.mapper.ConversationsToEntities(records)
	if err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	return conversations, nil
}

func (r *conversationRepository) SaveAll(ctx context.Context, conversations []*entity.Conversation) error {
	records := r.mapper.ConversationsToRecords(conversations)
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode conversations: %w", err)
	}
	if err := r.store.Set(ctx, constant.StoreKeyConversations, string(data)); err != nil {
		return fmt.Errorf("write conversations: %w", err)
	}
	return nil
}
