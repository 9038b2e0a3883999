package message

import (
	"time"

	"kelly-ai-client/internal/constant"
	"kelly-ai-client/internal/entity"

	"github.com/google/uuid"
)

// Factory builds messages and conversations with fresh ids and timestamps.
type Factory struct {
	now func() time.Time
}

func NewFactory() *Factory {
	return &Factory{now: time.Now}
}

// NewFactoryWithClock is for tests that need fixed timestamps.
func NewFactoryWithClock(now func() time.Time) *Factory {
	return &Factory{now: now}
}

func (f *Factory) Now() time.Time {
	return f.now()
}

// NewId returns a UUIDv7 string. v7 ids sort by creation time and do not
// collide when two are made in the same millisecond.
func (f *Factory) NewId() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (f *Factory) CreateUserMessage(text string) *entity.Message {
	return &entity.Message{
		Id:        f.NewId(),
		Text:      text,
		Sender:    entity.SenderUser,
		Timestamp: f.now(),
	}
}

func (f *Factory) CreateAIMessage(text string) *entity.Message {
	return &entity.Message{
		Id:        f.NewId(),
		Text:      text,
		Sender:    entity.SenderAI,
		Timestamp: f.now(),
	}
}

func (f *Factory) CreateConversation(title string) *entity.Conversation {
	now := f.now()
	return &entity.Conversation{
		Id:        f.NewId(),
		Title:     title,
		Messages:  []*entity.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Title returns the first 30 characters of text, with "..." appended when
// the text was longer.
func Title(text string) string {
	runes := []rune(text)
	if len(runes) <= constant.ConversationTitleMaxLen {
		return text
	}
	return string(runes[:constant.ConversationTitleMaxLen]) + constant.ConversationTitleSuffix
}
