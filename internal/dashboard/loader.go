// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard loads and caches the research dashboard data: aggregate
// stats, recent sessions, and insights.
package dashboard

import (
	"context"
	"sync"

	"github.com/jeranaias/scholar-tui/internal/api"
	"github.com/jeranaias/scholar-tui/internal/model"
)

// =============================================================================
// STATE
// =============================================================================

// State is the loader's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

// String returns the state name for status lines and logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher is the slice of the backend client the loader needs.
type Fetcher interface {
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
	DashboardSessions(ctx context.Context) ([]model.ResearchSession, error)
	DashboardInsights(ctx context.Context) ([]model.Insight, error)
	DeleteDashboardSession(ctx context.Context, id string) error
}

// =============================================================================
// LOADER
// =============================================================================

// Loader owns the dashboard's data and state machine:
//
//	idle -> loading -> loaded
//	                -> error -> loading (retry)
//
// Load fans out the three reads concurrently. When all three settle without
// a transport failure, each result applies independently: an endpoint-level
// failure (non-2xx, bad body) leaves that slice of data at its previous
// value. A transport-level failure aborts the whole load: nothing is
// applied and the loader enters StateError so the UI can offer a retry.
type Loader struct {
	client Fetcher

	mu       sync.Mutex
	state    State
	stats    *model.DashboardStats
	sessions []model.ResearchSession
	insights []model.Insight
	lastErr  error
}

// NewLoader creates an idle loader.
func NewLoader(client Fetcher) *Loader {
	return &Loader{client: client, state: StateIdle}
}

// Load fetches stats, sessions, and insights concurrently and applies
// whatever succeeded. Calling Load from StateError is the retry path.
// A Load while already loading is a no-op.
func (l *Loader) Load(ctx context.Context) {
	l.mu.Lock()
	if l.state == StateLoading {
		l.mu.Unlock()
		return
	}
	l.state = StateLoading
	l.lastErr = nil
	l.mu.Unlock()

	var (
		wg       sync.WaitGroup
		stats    *model.DashboardStats
		sessions []model.ResearchSession
		insights []model.Insight
		errs     [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		stats, errs[0] = l.client.DashboardStats(ctx)
	}()
	go func() {
		defer wg.Done()
		sessions, errs[1] = l.client.DashboardSessions(ctx)
	}()
	go func() {
		defer wg.Done()
		insights, errs[2] = l.client.DashboardInsights(ctx)
	}()
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()

	// A transport failure means the backend is gone, not that one endpoint
	// had a bad day. It aborts the whole load: nothing that arrived is
	// applied, and the previous data stays put under the retry banner.
	for _, err := range errs {
		if err != nil && api.IsUnavailable(err) {
			l.state = StateError
			l.lastErr = err
			return
		}
	}

	// All three settled without a transport failure; apply each success and
	// keep the previous value where an endpoint answered with an error.
	if errs[0] == nil {
		l.stats = stats
	}
	if errs[1] == nil {
		l.sessions = sessions
	}
	if errs[2] == nil {
		l.insights = insights
	}
	l.state = StateLoaded
}

// DeleteSession removes a session. On a successful delete the row disappears
// locally right away; the caller should follow with Load to resync the
// aggregate counts. On failure the list is untouched and the error recorded.
func (l *Loader) DeleteSession(ctx context.Context, id string) error {
	if err := l.client.DeleteDashboardSession(ctx, id); err != nil {
		l.mu.Lock()
		l.lastErr = err
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.sessions {
		if l.sessions[i].ID == id {
			l.sessions = append(l.sessions[:i], l.sessions[i+1:]...)
			break
		}
	}
	return nil
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error behind StateError or the last failed delete.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Stats returns the last loaded stats, or nil before any successful load.
func (l *Loader) Stats() *model.DashboardStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stats == nil {
		return nil
	}
	s := *l.stats
	return &s
}

// Sessions returns a copy of the recent-session rows.
func (l *Loader) Sessions() []model.ResearchSession {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.ResearchSession, len(l.sessions))
	copy(out, l.sessions)
	return out
}

// Insights returns a copy of the insight cards.
func (l *Loader) Insights() []model.Insight {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Insight, len(l.insights))
	copy(out, l.insights)
	return out
}
