// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/scholar-tui/internal/api"
	"github.com/jeranaias/scholar-tui/internal/config"
	"github.com/jeranaias/scholar-tui/internal/session"
	"github.com/jeranaias/scholar-tui/internal/storage"
	"github.com/jeranaias/scholar-tui/internal/ui/components"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	controller *session.Controller
	monitor    *api.Monitor
	store      *storage.HistoryStore
	cfg        *config.Config

	viewport viewport.Model
	textarea textarea.Model
	spinner  components.Spinner
	toasts   *components.ToastManager
	renderer *glamour.TermRenderer

	health api.HealthStatus
	width  int
	height int
	ready  bool
}

// New creates the chat view. store may be nil when history is disabled.
func New(controller *session.Controller, monitor *api.Monitor, store *storage.HistoryStore, cfg *config.Config) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask a research question..."
	ta.Focus()
	ta.Prompt = "> "
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	return Model{
		controller: controller,
		monitor:    monitor,
		store:      store,
		cfg:        cfg,
		textarea:   ta,
		spinner:    components.NewResearchSpinner(),
		toasts:     components.NewToastManager(),
		renderer:   renderer,
	}
}

// Init starts the blink cursor and the health probe loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		probeHealthCmd(m.monitor),
		healthTickCmd(m.cfg.HealthInterval()),
	)
}
