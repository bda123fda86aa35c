// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"github.com/jeranaias/scholar-tui/internal/model"
)

// =============================================================================
// REQUEST / RESPONSE PAYLOADS
// =============================================================================

// SendRequest is the body for POST /chat/send/.
type SendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// SendResponse is the body returned by POST /chat/send/.
type SendResponse struct {
	Message   string         `json:"message"`
	Sources   []model.Source `json:"sources,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

// SessionDetail is one session as returned by the sessions endpoints.
// The message list is only populated by GET /chat/sessions/{id}/.
type SessionDetail struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
	MessageCount int              `json:"message_count"`
	Messages     []SessionMessage `json:"messages,omitempty"`
}

// SessionMessage is a message inside a SessionDetail.
type SessionMessage struct {
	ID        string         `json:"id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp string         `json:"timestamp"`
	Sources   []model.Source `json:"sources,omitempty"`
}

// ResearchSearchRequest is the body for POST /research/search/. Filters
// narrows the search; recognized keys include source_type and max_results.
type ResearchSearchRequest struct {
	Query   string            `json:"query"`
	Filters map[string]string `json:"filters,omitempty"`
}

// ResearchSearchResponse is the body returned by POST /research/search/.
type ResearchSearchResponse struct {
	Results []model.Source `json:"results"`
	Total   int            `json:"total,omitempty"`
}

// researchSourcesResponse wraps the source list from GET /research/sources/.
type researchSourcesResponse struct {
	Sources []model.Source `json:"sources"`
}

// HealthResponse is the body returned by GET /chat/health/.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Healthy reports whether the backend considers itself operational.
func (h *HealthResponse) Healthy() bool {
	return h.Status == "healthy"
}

// dashboardSessionsResponse wraps the dashboard session list.
type dashboardSessionsResponse struct {
	Sessions []model.ResearchSession `json:"sessions"`
}

// dashboardInsightsResponse wraps the dashboard insight list.
type dashboardInsightsResponse struct {
	Insights []model.Insight `json:"insights"`
}
