package mapper

import (
	"fmt"

	"kelly-ai-client/internal/dto"
	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

// Conversation Mappers

func (m *ConversationMapper) ConversationToRecord(c *entity.Conversation) model.ConversationRecord {
	messages := make([]model.MessageRecord, 0, len(c.Messages))
	for _, msg := range c.Messages {
		messages = append(messages, m.MessageToRecord(msg))
	}

	return model.ConversationRecord{
		Id:        c.Id,
		Title:     c.Title,
		Messages:  messages,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *ConversationMapper) ConversationToEntity(r model.ConversationRecord) (*entity.Conversation, error) {
	messages := make([]*entity.Message, 0, len(r.Messages))
	for _, rec := range r.Messages {
		msg, err := m.MessageToEntity(rec)
		if err != nil {
			return nil, fmt.Errorf("conversation %s: %w", r.Id, err)
		}
		messages = append(messages, msg)
	}

	return &entity.Conversation{
		Id:        r.Id,
		Title:     r.Title,
		Messages:  messages,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (m *ConversationMapper) ConversationsToRecords(list []*entity.Conversation) []model.ConversationRecord {
	out := make([]model.ConversationRecord, 0, len(list))
	for _, c := range list {
		out = append(out, m.ConversationToRecord(c))
	}
	return out
}

func (m *ConversationMapper) ConversationsToEntities(records []model.ConversationRecord) ([]*entity.Conversation, error) {
	out := make([]*entity.Conversation, 0, len(records))
	for _, r := range records {
		c, err := m.ConversationToEntity(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Message Mappers

func (m *ConversationMapper) MessageToRecord(msg *entity.Message) model.MessageRecord {
	return model.MessageRecord{
		Id:        msg.Id,
		Text:      msg.Text,
		Sender:    string(msg.Sender),
		Timestamp: msg.Timestamp,
	}
}

func (m *ConversationMapper) MessageToEntity(r model.MessageRecord) (*entity.Message, error) {
	sender, err := entity.ParseSender(r.Sender)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", r.Id, err)
	}

	return &entity.Message{
		Id:        r.Id,
		Text:      r.Text,
		Sender:    sender,
		Timestamp: r.Timestamp,
	}, nil
}

// Response Mappers

func (m *ConversationMapper) MessageToResponse(msg *entity.Message) *dto.MessageResponse {
	if msg == nil {
		return nil
	}
	return &dto.MessageResponse{
		Id:        msg.Id,
		Text:      msg.Text,
		Sender:    string(msg.Sender),
		Timestamp: msg.Timestamp,
	}
}

func (m *ConversationMapper) ConversationToResponse(c *entity.Conversation) *dto.ConversationResponse {
	if c == nil {
		return nil
	}
	messages := make([]*dto.MessageResponse, 0, len(c.Messages))
	for _, msg := range c.Messages {
		messages = append(messages, m.MessageToResponse(msg))
	}
	return &dto.ConversationResponse{
		Id:        c.Id,
		Title:     c.Title,
		Messages:  messages,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *ConversationMapper) ConversationToSummary(c *entity.Conversation, currentId string) *dto.ConversationSummaryResponse {
	return &dto.ConversationSummaryResponse{
		Id:           c.Id,
		Title:        c.Title,
		MessageCount: len(c.Messages),
		IsCurrent:    c.Id == currentId,
		UpdatedAt:    c.UpdatedAt,
	}
}
