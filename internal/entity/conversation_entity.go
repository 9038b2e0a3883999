package entity

import (
	"errors"
	"time"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUnknownSender        = errors.New("unknown message sender")
)

type Conversation struct {
	Id        string
	Title     string
	Messages  []*Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so callers cannot splice the store's messages.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	out.Messages = make([]*Message, len(c.Messages))
	for i, m := range c.Messages {
		cp := *m
		out.Messages[i] = &cp
	}
	return &out
}
