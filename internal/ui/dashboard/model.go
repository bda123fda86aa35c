// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard provides the research dashboard view for the scholar TUI.
package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/scholar-tui/internal/dashboard"
)

// =============================================================================
// MESSAGES
// =============================================================================

// LoadedMsg signals that a Load pass finished; the loader holds the outcome.
type LoadedMsg struct{}

// DeleteDoneMsg reports a delete attempt.
type DeleteDoneMsg struct {
	ID  string
	Err error
}

// =============================================================================
// DASHBOARD MODEL
// =============================================================================

// Model is the Bubble Tea model for the dashboard view.
type Model struct {
	loader *dashboard.Loader

	cursor  int
	width   int
	height  int
	ready   bool
	lastErr string
}

// New creates the dashboard view around a loader.
func New(loader *dashboard.Loader) Model {
	return Model{loader: loader}
}

// Init kicks off the first load.
func (m Model) Init() tea.Cmd {
	return loadCmd(m.loader)
}

// =============================================================================
// COMMANDS
// =============================================================================

// loadCmd runs a full fan-out load off the event loop.
func loadCmd(loader *dashboard.Loader) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		loader.Load(ctx)
		return LoadedMsg{}
	}
}

// deleteCmd deletes one session; the loader removes the row locally on
// success before the follow-up reload resyncs the counters.
func deleteCmd(loader *dashboard.Loader, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return DeleteDoneMsg{ID: id, Err: loader.DeleteSession(ctx, id)}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles dashboard events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "r":
			// Retry is just another load; the loader handles the
			// error -> loading transition.
			if m.loader.State() != dashboard.StateLoading {
				m.lastErr = ""
				return m, loadCmd(m.loader)
			}

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.loader.Sessions())-1 {
				m.cursor++
			}

		case "x", "delete":
			sessions := m.loader.Sessions()
			if m.cursor < len(sessions) {
				return m, deleteCmd(m.loader, sessions[m.cursor].ID)
			}
		}

	case LoadedMsg:
		if m.loader.State() == dashboard.StateError && m.loader.Err() != nil {
			m.lastErr = m.loader.Err().Error()
		} else {
			m.lastErr = ""
		}
		if n := len(m.loader.Sessions()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}

	case DeleteDoneMsg:
		if msg.Err != nil {
			m.lastErr = "Delete failed: " + msg.Err.Error()
			return m, nil
		}
		if n := len(m.loader.Sessions()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		// Reload to resync the aggregate counters.
		return m, loadCmd(m.loader)
	}

	return m, nil
}
