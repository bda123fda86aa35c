// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all chat view events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshTranscript()
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "enter":
			text := strings.TrimSpace(m.textarea.Value())
			// Blank input and in-flight sends are no-ops; the textarea
			// keeps its content only in the in-flight case.
			if text == "" {
				m.textarea.Reset()
				return m, nil
			}
			if m.controller.InFlight() {
				return m, nil
			}
			m.textarea.Reset()
			// Optimistic append happens here, before the network call.
			return m.submit(text)

		case "ctrl+n":
			if m.controller.InFlight() {
				return m, nil
			}
			cmd := m.archiveIfEnabled()
			m.controller.StartNew()
			m.refreshTranscript()
			m.toasts.AddStatus("Started a new chat")
			return m, tea.Batch(cmd, toastTickCmd())

		case "pgup":
			m.viewport.HalfViewUp()
		case "pgdown":
			m.viewport.HalfViewDown()
		}

	case SendStartedMsg:
		m.refreshTranscript()
		m.viewport.GotoBottom()

	case SendCompleteMsg:
		m.spinner.Stop()
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case HealthTickMsg:
		return m, tea.Batch(probeHealthCmd(m.monitor), healthTickCmd(m.cfg.HealthInterval()))

	case HealthStatusMsg:
		m.health = msg.Status

	case ArchiveSavedMsg:
		if msg.Err != nil {
			m.toasts.AddError("Could not save history: " + msg.Err.Error())
			return m, toastTickCmd()
		}

	case ToastTickMsg:
		if m.toasts.Prune() {
			return m, toastTickCmd()
		}

	case ConfigReloadedMsg:
		m.cfg = msg.Cfg
		m.refreshTranscript()
		m.toasts.AddStatus("Configuration reloaded")
		return m, toastTickCmd()
	}

	// Delegate remaining messages to the focused components.
	var taCmd, vpCmd, spCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)
	cmds = append(cmds, taCmd, vpCmd, spCmd)

	// Spinner ticks double as repaint frames while a send is outstanding,
	// keeping the transcript current with the controller.
	if m.spinner.IsActive() && m.controller.InFlight() {
		m.refreshTranscript()
	}

	return m, tea.Batch(cmds...)
}

// submit starts a send: optimistic append via the controller, spinner on,
// network round-trip in a command goroutine.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	spinCmd := m.spinner.Start()
	send := sendCmd(m.controller, text, m.cfg.Timeout())

	// The user message must be visible before the reply arrives. Send in
	// the controller appends it synchronously, but it runs inside the
	// command goroutine, so append through a synchronous path: issue the
	// command and repaint on the next frame via SendStartedMsg.
	return m, tea.Batch(send, spinCmd, func() tea.Msg {
		return SendStartedMsg{}
	})
}

// archiveIfEnabled snapshots the conversation when history is on.
func (m *Model) archiveIfEnabled() tea.Cmd {
	if m.store == nil || !m.cfg.History.Enabled {
		return nil
	}
	if len(m.controller.Messages()) == 0 {
		return nil
	}
	return archiveCmd(m.store, m.controller)
}

// layout sizes the fixed chrome around the viewport.
func (m *Model) layout() {
	headerHeight := 1
	inputHeight := 4
	statusHeight := 1

	m.textarea.SetWidth(m.width - 2)
	m.viewport.Width = m.width
	m.viewport.Height = m.height - headerHeight - inputHeight - statusHeight
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
}
