package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kelly-ai-client/internal/pkg/logger"
	"kelly-ai-client/internal/pkg/metrics"
	"kelly-ai-client/internal/repository/implementation"
	"kelly-ai-client/internal/repository/memory"
	"kelly-ai-client/internal/service"
	"kelly-ai-client/pkg/authapi"
	"kelly-ai-client/pkg/kelly"
	"kelly-ai-client/pkg/message"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAsker struct{ answer string }

func (a stubAsker) Ask(context.Context, string, string) kelly.Result {
	return kelly.Result{Answer: a.answer}
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Title   string          `json:"title"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T, authURL string) (*fiber.App, service.IConversationService) {
	t.Helper()
	log := logger.NewNopLogger()
	store := memory.NewSecureStore()
	collector := metrics.NewCollector("test")
	factory := message.NewFactory()
	pub := service.NewNopPublisher()

	conversations := service.NewConversationService(implementation.NewConversationRepository(store), factory, pub, log, collector)
	chat := service.NewChatService(conversations, stubAsker{answer: "Hi! How can I help?"}, factory, pub, log, collector)
	creds := implementation.NewCredentialRepository(store)
	auth := service.NewAuthService(authapi.NewClient(authURL, 0), creds, log)
	reports := service.NewReportService(nil, creds, log)

	app := fiber.New()
	api := app.Group("/api")
	NewAuthController(auth).RegisterRoutes(api)
	NewChatController(conversations, chat).RegisterRoutes(api)
	NewReportController(reports).RegisterRoutes(api)
	return app, conversations
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	return res.StatusCode, env
}

func TestChatFlow(t *testing.T) {
	app, conversations := newTestApp(t, "http://127.0.0.1:1")

	code, env := do(t, app, http.MethodGet, "/api/conversations", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	code, env = do(t, app, http.MethodPost, "/api/chat/messages", `{"text":"Hello there"}`)
	require.Equal(t, http.StatusOK, code)
	var sent struct {
		ConversationId    string `json:"conversation_id"`
		ConversationTitle string `json:"title"`
		Reply             struct {
			Text string `json:"text"`
		} `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sent))
	assert.Equal(t, "Hello there", sent.ConversationTitle)
	assert.Equal(t, "Hi! How can I help?", sent.Reply.Text)
	assert.Equal(t, conversations.CurrentId(), sent.ConversationId)

	code, _ = do(t, app, http.MethodGet, "/api/conversations/current", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, app, http.MethodPost, "/api/conversations", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, conversations.List(), 2)

	code, _ = do(t, app, http.MethodPut, "/api/conversations/"+sent.ConversationId+"/select", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, sent.ConversationId, conversations.CurrentId())

	code, _ = do(t, app, http.MethodDelete, "/api/conversations/"+sent.ConversationId, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, conversations.List(), 1)
}

func TestChatErrors(t *testing.T) {
	app, _ := newTestApp(t, "http://127.0.0.1:1")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "blank message", method: http.MethodPost, path: "/api/chat/messages", body: `{"text":"  "}`, want: http.StatusBadRequest},
		{name: "bad body", method: http.MethodPost, path: "/api/chat/messages", body: `{`, want: http.StatusBadRequest},
		{name: "select unknown", method: http.MethodPut, path: "/api/conversations/nope/select", want: http.StatusNotFound},
		{name: "delete unknown", method: http.MethodDelete, path: "/api/conversations/nope", want: http.StatusNotFound},
		{name: "get unknown", method: http.MethodGet, path: "/api/conversations/nope", want: http.StatusNotFound},
		{name: "empty report", method: http.MethodPost, path: "/api/reports", body: `{"text":""}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.want, env.Code)
		})
	}
}

func TestAuthEndpoints(t *testing.T) {
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Invalid login credentials"}`))
			return
		}
		w.Write([]byte(`{"data":{"session":{"access_token":"at","refresh_token":"rt"},"user":{"id":"u1","email":"a@b.co"}}}`))
	}))
	defer authServer.Close()

	app, _ := newTestApp(t, authServer.URL)

	code, env := do(t, app, http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Login Failed", env.Title)
	assert.Equal(t, "Invalid login credentials", env.Message)

	code, env = do(t, app, http.MethodPost, "/api/auth/signup", `{"email":"a@b.co","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Password must be at least 6 characters long.", env.Message)

	code, _ = do(t, app, http.MethodPost, "/api/auth/signup", `{"email":"a@b.co","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, app, http.MethodGet, "/api/auth/session", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"authenticated":true`)

	code, _ = do(t, app, http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, code)

	_, env = do(t, app, http.MethodGet, "/api/auth/session", "")
	assert.Contains(t, string(env.Data), `"authenticated":false`)
}

func TestAuthServerUnreachable(t *testing.T) {
	app, _ := newTestApp(t, "http://127.0.0.1:1")

	code, env := do(t, app, http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"secret1"}`)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "could not connect to the server", env.Message)
}
