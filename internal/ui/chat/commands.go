// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/scholar-tui/internal/api"
	"github.com/jeranaias/scholar-tui/internal/session"
	"github.com/jeranaias/scholar-tui/internal/storage"
)

// =============================================================================
// COMMANDS
// =============================================================================

// sendCmd runs the full send round-trip off the event loop. The controller
// appended the user message synchronously before this command runs, and it
// appends the reply or the apology itself, so completion is just a repaint
// signal.
func sendCmd(controller *session.Controller, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		controller.Send(ctx, text)
		return SendCompleteMsg{}
	}
}

// healthTickCmd schedules the next health probe.
func healthTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return HealthTickMsg{}
	})
}

// probeHealthCmd runs one rate-limited probe.
func probeHealthCmd(monitor *api.Monitor) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return HealthStatusMsg{Status: monitor.Probe(ctx)}
	}
}

// archiveCmd snapshots the conversation into the local history store.
func archiveCmd(store *storage.HistoryStore, controller *session.Controller) tea.Cmd {
	return func() tea.Msg {
		localID, err := store.Save(controller.Snapshot())
		return ArchiveSavedMsg{LocalID: localID, Err: err}
	}
}

// toastTickCmd drives toast expiry while any toast is on screen.
func toastTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return ToastTickMsg{}
	})
}
