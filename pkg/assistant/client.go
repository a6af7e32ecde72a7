package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"commerce-assistant-be/internal/dto"
)

// ChatPath is the remote assistant endpoint consumed by the session
// manager. Calls go over GET so the cache gateway can intercept them.
const ChatPath = "/api/assistant/v1/chat"

// Client talks to the remote assistant endpoint.
type Client interface {
	Send(ctx context.Context, message, visitorID, sessionID string) (*dto.ChatResponse, error)
}

// HTTPClient is the production Client. Wire its http.Client with the
// cache gateway transport to get offline fallbacks for free.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client against baseURL using the given
// transport (nil means http.DefaultTransport).
func NewHTTPClient(baseURL string, transport http.RoundTripper) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Transport: transport},
	}
}

// Send issues one chat exchange. A non-success status is reported as an
// error, indistinguishable from a transport failure to the caller.
func (c *HTTPClient) Send(ctx context.Context, message, visitorID, sessionID string) (*dto.ChatResponse, error) {
	q := url.Values{}
	q.Set("message", message)
	q.Set("visitorId", visitorID)
	if sessionID != "" {
		q.Set("sessionId", sessionID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ChatPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("assistant endpoint returned status %d", resp.StatusCode)
	}

	var out dto.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode assistant response: %w", err)
	}
	return &out, nil
}
