// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/scholar-tui/internal/api"
	"github.com/jeranaias/scholar-tui/internal/dashboard"
	"github.com/jeranaias/scholar-tui/internal/model"
)

// stubFetcher serves a fixed dashboard, dropping rows that were deleted.
type stubFetcher struct {
	mu          sync.Mutex
	sessionsErr error
	deleted     map[string]bool
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{deleted: map[string]bool{}}
}

func (s *stubFetcher) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	return &model.DashboardStats{ResearchSessions: 2}, nil
}

func (s *stubFetcher) DashboardSessions(ctx context.Context) ([]model.ResearchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionsErr != nil {
		return nil, s.sessionsErr
	}
	var out []model.ResearchSession
	for _, row := range []model.ResearchSession{
		{ID: "s1", Title: "RAG pipelines"},
		{ID: "s2", Title: "Embeddings"},
	} {
		if !s.deleted[row.ID] {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubFetcher) DashboardInsights(ctx context.Context) ([]model.Insight, error) {
	return []model.Insight{{Title: "Deep dive"}}, nil
}

func (s *stubFetcher) DeleteDashboardSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted[id] = true
	return nil
}

func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func TestDeleteKeyDispatchesDelete(t *testing.T) {
	stub := newStubFetcher()
	loader := dashboard.NewLoader(stub)
	loader.Load(context.Background())

	m := New(loader)

	updated, cmd := m.Update(keyMsg("x"))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected a delete command for the cursor row")
	}

	done, ok := cmd().(DeleteDoneMsg)
	if !ok {
		t.Fatal("expected DeleteDoneMsg")
	}
	if done.ID != "s1" || done.Err != nil {
		t.Fatalf("done = %+v", done)
	}
	if got := loader.Sessions(); len(got) != 1 || got[0].ID != "s2" {
		t.Errorf("sessions = %+v, want row removed locally", got)
	}

	// Feeding the result back triggers the resync reload.
	updated, cmd = m.Update(done)
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected a reload command after a successful delete")
	}
	cmd()
	if got := loader.Sessions(); len(got) != 1 || got[0].ID != "s2" {
		t.Errorf("sessions after reload = %+v", got)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
}

func TestRetryFromErrorBanner(t *testing.T) {
	stub := newStubFetcher()
	stub.sessionsErr = api.ErrUnavailable
	loader := dashboard.NewLoader(stub)
	loader.Load(context.Background())

	m := New(loader)
	updated, _ := m.Update(LoadedMsg{})
	m = updated.(Model)
	if m.lastErr == "" {
		t.Fatal("expected a banner message after a failed load")
	}

	stub.mu.Lock()
	stub.sessionsErr = nil
	stub.mu.Unlock()

	updated, cmd := m.Update(keyMsg("r"))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected a reload command from the banner")
	}

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	if loader.State() != dashboard.StateLoaded {
		t.Fatalf("state = %v, want loaded", loader.State())
	}
	if m.lastErr != "" {
		t.Errorf("banner = %q, want cleared", m.lastErr)
	}
}

func TestCursorMovesWithinBounds(t *testing.T) {
	loader := dashboard.NewLoader(newStubFetcher())
	loader.Load(context.Background())
	m := New(loader)

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	updated, _ = m.Update(keyMsg("j"))
	m = updated.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want clamped at last row", m.cursor)
	}
	updated, _ = m.Update(keyMsg("k"))
	m = updated.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}
