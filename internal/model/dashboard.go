// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// DASHBOARD PROJECTIONS
// =============================================================================

// DashboardStats holds the aggregate counters shown on the dashboard.
// These are read-only projections computed server-side.
type DashboardStats struct {
	ResearchSessions  int     `json:"research_sessions"`
	MessagesExchanged int     `json:"messages_exchanged"`
	SourcesCited      int     `json:"sources_cited"`
	ResearchHours     float64 `json:"research_hours"`
}

// ResearchSession is one row in the dashboard's recent-sessions list.
type ResearchSession struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Messages   int      `json:"messages"`
	LastActive string   `json:"lastActive"`
	Topics     []string `json:"topics"`
	Status     string   `json:"status"`
}

// Insight is a server-generated suggestion card.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
}
