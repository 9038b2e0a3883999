package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kelly-ai-client/internal/constant"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mode string

const (
	ModeSignup Mode = "signup"
	ModeLogin  Mode = "login"
)

func (m Mode) endpoint() string {
	if m == ModeSignup {
		return constant.AuthSignupEndpoint
	}
	return constant.AuthLoginEndpoint
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type User struct {
	Id    string `json:"id"`
	Email string `json:"email"`
}

// Data covers both success shapes: {session, user} and the bare {id, email}.
type Data struct {
	Session *Session `json:"session"`
	User    *User    `json:"user"`
	Id      string   `json:"id"`
	Email   string   `json:"email"`
}

type Envelope struct {
	Data  *Data           `json:"data"`
	Error json.RawMessage `json:"error"`
}

// HasError reports whether the server filled the error field.
func (e *Envelope) HasError() bool {
	s := strings.TrimSpace(string(e.Error))
	return s != "" && s != "null" && s != `""` && s != "false"
}

// ErrorMessage extracts the message from {error: string} or
// {error: {message: string}}. ok is false when the server sent none.
func (e *Envelope) ErrorMessage() (message string, ok bool) {
	if !e.HasError() {
		return "", false
	}
	var text string
	if err := json.Unmarshal(e.Error, &text); err == nil {
		return text, true
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Error, &obj); err == nil {
		return obj.Message, true
	}
	return "", true
}

type Response struct {
	StatusCode int
	Envelope   Envelope
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

type Authenticator interface {
	Authenticate(ctx context.Context, mode Mode, creds Credentials) (*Response, error)
}

type Client struct {
	BaseURL string
	Client  *http.Client
}

var _ Authenticator = &Client{}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Authenticate posts the credentials and decodes whatever envelope comes back.
// An error means the server could not be reached or did not answer JSON.
func (c *Client) Authenticate(ctx context.Context, mode Mode, creds Credentials) (*Response, error) {
	ctx, span := otel.Tracer("kelly-ai-client/pkg/authapi").Start(ctx, "authapi.Authenticate")
	defer span.End()
	span.SetAttributes(attribute.String("auth.mode", string(mode)))

	res, err := c.authenticate(ctx, mode, creds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))
	return res, nil
}

func (c *Client) authenticate(ctx context.Context, mode Mode, creds Credentials) (*Response, error) {
	payloadBytes, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + mode.endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	out := &Response{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(bodyBytes, &out.Envelope); err != nil {
		return nil, fmt.Errorf("unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	return out, nil
}
