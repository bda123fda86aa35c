// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/scholar-tui/internal/model"
)

// maxResponseSize limits how much of a response body is read into memory.
// Chat answers are small; anything larger is a misbehaving backend.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend API root (default: http://127.0.0.1:8000/api)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6 resolution issues on Windows
	BaseURL string

	// Timeout for requests (default: 60s; LLM answers can take a while)
	Timeout time.Duration

	// UserAgent sent with every request
	UserAgent string

	// LogRequests prints one line per request/response to stderr
	LogRequests bool
}

// DefaultConfig returns the default client configuration. The base URL is
// resolved from the SCHOLAR_BACKEND_URL environment variable when set.
func DefaultConfig() *ClientConfig {
	cfg := &ClientConfig{
		BaseURL:   "http://127.0.0.1:8000/api",
		Timeout:   60 * time.Second,
		UserAgent: "scholar-tui/1.0",
	}
	if env := os.Getenv("SCHOLAR_BACKEND_URL"); env != "" {
		cfg.BaseURL = env
	}
	return cfg
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Scholar backend.
//
// The Client is thread-safe for concurrent use.
//
// Example:
//
//	client := api.NewClient()
//	resp, err := client.Send(ctx, "what is RAG?", "")
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000/api"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "scholar-tui/1.0"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the resolved backend root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// CHAT
// =============================================================================

// Send posts a user message to the backend. sessionID may be empty for the
// first message of a conversation; the response carries the id the server
// assigned or confirmed.
func (c *Client) Send(ctx context.Context, message, sessionID string) (*SendResponse, error) {
	body := SendRequest{Message: message, SessionID: sessionID}

	var resp SendResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat/send/", &body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// SESSIONS
// =============================================================================

// ListSessions returns all sessions (metadata only, no messages).
func (c *Client) ListSessions(ctx context.Context) ([]SessionDetail, error) {
	var sessions []SessionDetail
	if err := c.doJSON(ctx, http.MethodGet, "/chat/sessions/", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession returns one session with its full message list.
func (c *Client) GetSession(ctx context.Context, id string) (*SessionDetail, error) {
	var session SessionDetail
	if err := c.doJSON(ctx, http.MethodGet, "/chat/sessions/"+url.PathEscape(id)+"/", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession deletes a session server-side.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/chat/sessions/"+url.PathEscape(id)+"/delete/", nil, nil)
}

// =============================================================================
// RESEARCH
// =============================================================================

// ResearchSearch runs a source search across the research corpus. filters
// may be nil; see ResearchSearchRequest for the recognized keys.
func (c *Client) ResearchSearch(ctx context.Context, query string, filters map[string]string) (*ResearchSearchResponse, error) {
	body := ResearchSearchRequest{Query: query, Filters: filters}

	var resp ResearchSearchResponse
	if err := c.doJSON(ctx, http.MethodPost, "/research/search/", &body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResearchSources looks up cited sources matching a free-text query.
func (c *Client) ResearchSources(ctx context.Context, q string) ([]model.Source, error) {
	var resp researchSourcesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/research/sources/?q="+url.QueryEscape(q), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}

// =============================================================================
// HEALTH
// =============================================================================

// Health probes the backend health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/chat/health/", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// =============================================================================
// DASHBOARD
// =============================================================================

// DashboardStats returns the aggregate research counters.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/chat/dashboard/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DashboardSessions returns the recent-session rows.
func (c *Client) DashboardSessions(ctx context.Context) ([]model.ResearchSession, error) {
	var resp dashboardSessionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/chat/dashboard/sessions/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// DashboardInsights returns the server-generated insight cards.
func (c *Client) DashboardInsights(ctx context.Context) ([]model.Insight, error) {
	var resp dashboardInsightsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/chat/dashboard/insights/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Insights, nil
}

// DeleteDashboardSession deletes a session via the dashboard endpoint.
func (c *Client) DeleteDashboardSession(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/chat/dashboard/sessions/"+url.PathEscape(id)+"/delete/", nil, nil)
}

// =============================================================================
// TRANSPORT
// =============================================================================

// doJSON performs one request/response cycle: encode reqBody if non-nil,
// map transport failures and non-2xx statuses to typed errors, and decode
// the body into respBody if non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, respBody any) error {
	var bodyReader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.config.LogRequests {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		log.Printf("api: %s %s -> %d (%s)", method, path, status, time.Since(start).Round(time.Millisecond))
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		var ne interface{ Timeout() bool }
		if errors.As(err, &ne) && ne.Timeout() {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeUnavailable, Message: "backend is not reachable", Cause: err}
	}
	defer resp.Body.Close()

	data, err := readResponse(resp.Body)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	if respBody == nil {
		return nil
	}
	if err := json.Unmarshal(data, respBody); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response from backend", Cause: err}
	}
	return nil
}

// readResponse reads a body with a hard size cap.
func readResponse(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxResponseSize {
		return nil, errors.New("response exceeds size limit")
	}
	return data, nil
}

// statusError maps a non-2xx status to a typed error. The backend returns
// {"error": "..."} bodies on failure; the detail is kept when present.
func statusError(status int, body []byte) error {
	detail := ""
	var errBody struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
		detail = errBody.Error
	}

	msg := "backend returned " + http.StatusText(status)
	if detail != "" {
		msg = detail
	}

	switch {
	case status == http.StatusNotFound:
		return &ClientError{Type: ErrTypeNotFound, Message: msg, StatusCode: status}
	case status == http.StatusBadRequest:
		return &ClientError{Type: ErrTypeBadRequest, Message: msg, StatusCode: status}
	case status >= 500:
		return &ClientError{Type: ErrTypeServer, Message: msg, StatusCode: status}
	default:
		return &ClientError{Type: ErrTypeUnknown, Message: msg, StatusCode: status}
	}
}
