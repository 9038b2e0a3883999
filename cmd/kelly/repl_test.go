package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kelly-ai-client/internal/bootstrap"
	"kelly-ai-client/internal/config"
	"kelly-ai-client/internal/pkg/logger"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestContainer wires the client against the memory store, a fake Kelly
// endpoint and a fake auth server that accepts everyone.
func newTestContainer(t *testing.T) *bootstrap.Container {
	t.Helper()
	color.NoColor = true

	ai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":"Hi! How can I help?"}`))
	}))
	t.Cleanup(ai.Close)

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"session":{"access_token":"at","refresh_token":"rt"},"user":{"id":"u1","email":"a@b.co"}}}`))
	}))
	t.Cleanup(auth.Close)

	cfg := &config.Config{
		Remote: config.RemoteConfig{
			AuthBaseURL: auth.URL,
			AIBaseURL:   ai.URL,
			AITimeout:   5 * time.Second,
			AuthTimeout: 5 * time.Second,
		},
		Store: config.StoreConfig{Driver: "memory"},
	}
	c, err := bootstrap.NewContainer(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	c.ConversationService.Load(context.Background())
	return c
}

func runScript(c *bootstrap.Container, lines ...string) string {
	var out bytes.Buffer
	newREPL(c, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out).Run(context.Background())
	return out.String()
}

func TestREPLSendsPlainLines(t *testing.T) {
	c := newTestContainer(t)

	out := runScript(c, "Hello Kelly", "/list", "/quit")

	assert.Contains(t, out, "Kelly: Hi! How can I help?")
	assert.Contains(t, out, "* 1. Hello Kelly (2 messages)")

	list := c.ConversationService.List()
	require.Len(t, list, 1)
	require.Len(t, list[0].Messages, 2)
	assert.Equal(t, "Hello Kelly", list[0].Messages[0].Text)
}

func TestREPLDeleteAsksForConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		wantChats int
	}{
		{name: "no", answer: "n", wantChats: 1},
		{name: "empty answer", answer: "", wantChats: 1},
		{name: "anything else", answer: "yes please", wantChats: 1},
		{name: "yes", answer: "y", wantChats: 0},
		{name: "upper case yes", answer: "Y", wantChats: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContainer(t)

			out := runScript(c, "/new", "/delete 1", tt.answer, "/quit")

			assert.Contains(t, out, "Are you sure you want to delete this chat? [y/N]")
			assert.Len(t, c.ConversationService.List(), tt.wantChats)
			assert.Equal(t, tt.wantChats == 0, strings.Contains(out, "Chat deleted."))
		})
	}
}

func TestREPLDeleteOutOfRange(t *testing.T) {
	c := newTestContainer(t)

	out := runScript(c, "/new", "/delete 2", "/quit")

	assert.Contains(t, out, "Pick a chat number from /list")
	assert.NotContains(t, out, "[y/N]")
	assert.Len(t, c.ConversationService.List(), 1)
}

func TestREPLSwitch(t *testing.T) {
	c := newTestContainer(t)

	out := runScript(c, "/new", "/new", "/switch 0", "/switch 3", "/switch two", "/switch 2", "/quit")

	assert.Equal(t, 3, strings.Count(out, "Pick a chat number from /list"))
	list := c.ConversationService.List()
	require.Len(t, list, 2)
	// Newest chat is first; number 2 is the one created first.
	assert.Equal(t, list[1].Id, c.ConversationService.CurrentId())
}

func TestREPLLoginAndLogout(t *testing.T) {
	c := newTestContainer(t)

	out := runScript(c, "/login", "A@B.co", "secret1", "/logout", "/quit")
	assert.Contains(t, out, "Not signed in. Use /login or /signup.")
	assert.Contains(t, out, "Signed in as a@b.co")
	assert.Contains(t, out, "Logged out.")

	status, err := c.AuthService.CheckExistingAuth(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Authenticated)
}

func TestREPLLoginValidation(t *testing.T) {
	c := newTestContainer(t)

	out := runScript(c, "/login", "not-an-email", "secret1", "/quit")

	assert.Contains(t, out, "Please enter a valid email address.")
	assert.NotContains(t, out, "Signed in as")
}

func TestREPLMisc(t *testing.T) {
	c := newTestContainer(t)

	out := runScript(c, "", "/nope", "/report", "/report the reply is slow", "/help")

	assert.Contains(t, out, "Unknown command /nope")
	assert.Contains(t, out, "Please describe the issue")
	assert.Contains(t, out, "Thank you for reporting the issue.")
	assert.Contains(t, out, "/switch <n>")
	assert.Contains(t, out, "Try asking:")
	assert.Empty(t, c.ConversationService.List(), "commands are never sent as messages")
}
