package kelly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kelly-ai-client/internal/constant"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrRemote = errors.New("kelly service error")

// Result is the outcome of one question: either an answer (possibly empty) or
// the reason the call failed.
type Result struct {
	Answer string
	Err    error
}

func (r Result) Ok() bool {
	return r.Err == nil
}

// Asker is implemented by anything that can answer a chat message.
type Asker interface {
	Ask(ctx context.Context, query, conversationId string) Result
}

type Client struct {
	BaseURL string
	Client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

var _ Asker = &Client{}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(DefaultBreakerSettings("kelly-ai")),
	}
}

// DefaultBreakerSettings opens after five consecutive failures and probes
// again after thirty seconds. While open every Ask fails immediately.
func DefaultBreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

type askResponse struct {
	Data  json.RawMessage `json:"data"`
	Error json.RawMessage `json:"error"`
}

func (c *Client) Ask(ctx context.Context, query, conversationId string) Result {
	ctx, span := otel.Tracer("kelly-ai-client/pkg/kelly").Start(ctx, "kelly.Ask")
	defer span.End()
	span.SetAttributes(attribute.String("kelly.conversation_id", conversationId))

	answer, err := c.breaker.Execute(func() (interface{}, error) {
		return c.ask(ctx, query, conversationId)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{Err: err}
	}
	return Result{Answer: answer.(string)}
}

func (c *Client) ask(ctx context.Context, query, conversationId string) (string, error) {
	endpoint, err := url.Parse(c.BaseURL + constant.KellyAskEndpoint)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("id", conversationId)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	res, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("kelly request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var payload askResponse
	if err := json.Unmarshal(resBody, &payload); err != nil {
		return "", fmt.Errorf("unmarshal response (status %d): %w", res.StatusCode, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d, body: %s", ErrRemote, res.StatusCode, string(resBody))
	}
	if truthy(payload.Error) {
		return "", fmt.Errorf("%w: %s", ErrRemote, string(payload.Error))
	}

	return decodeAnswer(payload.Data)
}

// decodeAnswer accepts a string or null; anything else is not an answer.
func decodeAnswer(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var answer string
	if err := json.Unmarshal(raw, &answer); err != nil {
		return "", fmt.Errorf("%w: data is not text", ErrRemote)
	}
	return answer, nil
}

// truthy mirrors how the service's clients test the error field: absent,
// null, false, 0 and "" all mean no error.
func truthy(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
