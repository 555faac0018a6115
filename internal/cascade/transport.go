package cascade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
)

// ErrEmptyResult is returned when an endpoint answers 2xx without content.
var ErrEmptyResult = errors.New("tool endpoint returned no content")

// Transport posts one tool call to one endpoint. A nil error means the
// endpoint produced a usable result.
type Transport interface {
	Post(ctx context.Context, endpoint string, req tools.Request) (tools.Result, error)
}

// StatusError is a non-2xx answer from a tool endpoint.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tool endpoint %s returned status %d", e.Endpoint, e.StatusCode)
}

// HTTPTransport posts {name, arguments} as JSON.
type HTTPTransport struct {
	client *resty.Client
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport. A non-empty apiKey is sent in
// X-API-Key with every call.
func NewHTTPTransport(apiKey string) *HTTPTransport {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("X-API-Key", apiKey)
	}

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		slog.Debug("Tool endpoint responded",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
			"bytes", len(resp.Body()))
		return nil
	})

	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Post(ctx context.Context, endpoint string, req tools.Request) (tools.Result, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(endpoint)
	if err != nil {
		return tools.Result{}, fmt.Errorf("post %s: %w", endpoint, err)
	}
	if !resp.IsSuccess() {
		return tools.Result{}, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode()}
	}

	var result tools.Result
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return tools.Result{}, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	if len(result.Content) == 0 {
		return tools.Result{}, ErrEmptyResult
	}
	return result, nil
}
