// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/scholar-tui/internal/api"
	"github.com/jeranaias/scholar-tui/internal/config"
	"github.com/jeranaias/scholar-tui/internal/session"
)

// stubSender scripts backend replies for the controller.
type stubSender struct {
	calls int
}

func (s *stubSender) Send(ctx context.Context, message, sessionID string) (*api.SendResponse, error) {
	s.calls++
	return &api.SendResponse{Message: "answer", SessionID: "abc"}, nil
}

func newTestModel(sender session.Sender) Model {
	controller := session.NewController(sender)
	monitor := api.NewMonitor(api.NewClient(), time.Hour)
	return New(controller, monitor, nil, config.Default())
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestEnterWithBlankInputIsNoOp(t *testing.T) {
	stub := &stubSender{}
	m := sized(t, newTestModel(stub))
	m.textarea.SetValue("   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if cmd != nil {
		t.Error("expected no command for blank input")
	}
	if m.textarea.Value() != "" {
		t.Errorf("textarea = %q, want cleared", m.textarea.Value())
	}
	if got := len(m.controller.Messages()); got != 0 {
		t.Errorf("messages = %d, want 0", got)
	}
	if stub.calls != 0 {
		t.Errorf("backend calls = %d, want 0", stub.calls)
	}
}

func TestEnterSubmitsAndClearsInput(t *testing.T) {
	m := sized(t, newTestModel(&stubSender{}))
	m.textarea.SetValue("what is RAG?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("expected a send command")
	}
	if m.textarea.Value() != "" {
		t.Errorf("textarea = %q, want cleared after submit", m.textarea.Value())
	}
	if !m.spinner.IsActive() {
		t.Error("spinner should run while the send is outstanding")
	}
}

func TestCtrlNStartsNewChat(t *testing.T) {
	stub := &stubSender{}
	m := sized(t, newTestModel(stub))

	if err := m.controller.Send(context.Background(), "seed question"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(m.controller.Messages()) == 0 {
		t.Fatal("expected a seeded conversation")
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(Model)

	if got := len(m.controller.Messages()); got != 0 {
		t.Errorf("messages after new chat = %d, want 0", got)
	}
	if m.controller.SessionID() != "" {
		t.Errorf("session id = %q, want cleared", m.controller.SessionID())
	}
}
