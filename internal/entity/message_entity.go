package entity

import (
	"fmt"
	"time"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

func ParseSender(s string) (Sender, error) {
	switch Sender(s) {
	case SenderUser, SenderAI:
		return Sender(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSender, s)
}

type Message struct {
	Id        string
	Text      string
	Sender    Sender
	Timestamp time.Time
}
