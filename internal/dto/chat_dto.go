package dto

import "time"

type MessageResponse struct {
	Id        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

type ConversationResponse struct {
	Id        string             `json:"id"`
	Title     string             `json:"title"`
	Messages  []*MessageResponse `json:"messages"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ConversationSummaryResponse is the drawer list entry.
type ConversationSummaryResponse struct {
	Id           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	IsCurrent    bool      `json:"is_current"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type SendMessageResponse struct {
	ConversationId    string           `json:"conversation_id"`
	ConversationTitle string           `json:"title"`
	Sent              *MessageResponse `json:"sent"`
	Reply             *MessageResponse `json:"reply"`
}

type TypingResponse struct {
	IsTyping bool `json:"is_typing"`
}
