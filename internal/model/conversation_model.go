package model

import "time"

// ConversationRecord is the serialized shape stored under the "conversations"
// key. Keys stay camelCase so lists written by the mobile app still load.
type ConversationRecord struct {
	Id        string          `json:"id"`
	Title     string          `json:"title"`
	Messages  []MessageRecord `json:"messages"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type MessageRecord struct {
	Id        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}
