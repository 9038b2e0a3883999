package message

import (
	"strings"
	"testing"
	"time"

	"kelly-ai-client/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "short", text: "Hello there", want: "Hello there"},
		{name: "exactly thirty", text: strings.Repeat("a", 30), want: strings.Repeat("a", 30)},
		{name: "thirty one", text: strings.Repeat("a", 31), want: strings.Repeat("a", 30) + "..."},
		{name: "counts characters not bytes", text: strings.Repeat("é", 31), want: strings.Repeat("é", 30) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.text))
		})
	}
}

func TestFactory(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	f := NewFactoryWithClock(func() time.Time { return now })

	user := f.CreateUserMessage("hi")
	ai := f.CreateAIMessage("hello")
	conv := f.CreateConversation("New Chat")

	assert.Equal(t, entity.SenderUser, user.Sender)
	assert.Equal(t, entity.SenderAI, ai.Sender)
	assert.Equal(t, now, user.Timestamp)
	assert.NotEqual(t, user.Id, ai.Id)

	assert.Equal(t, "New Chat", conv.Title)
	assert.Empty(t, conv.Messages)
	assert.Equal(t, now, conv.CreatedAt)
	assert.Equal(t, now, conv.UpdatedAt)
}

func TestNewIdUnique(t *testing.T) {
	f := NewFactory()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := f.NewId()
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}
