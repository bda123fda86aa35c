// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/scholar-tui/internal/model"
	"github.com/jeranaias/scholar-tui/internal/ui/components"
	"github.com/jeranaias/scholar-tui/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting scholar..."
	}

	header := styles.HeaderStyle.Render("scholar")

	status := components.StatusBar{
		Health:    m.health,
		SessionID: m.controller.SessionID(),
		Hints:     "enter send | ctrl+n new chat | ctrl+c quit",
		Width:     m.width,
	}

	sections := []string{
		header,
		m.viewport.View(),
	}
	if m.spinner.IsActive() {
		sections = append(sections, " "+m.spinner.View())
	}
	sections = append(sections, m.textarea.View(), status.View())

	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if toastView := m.toasts.RenderToastStack(m.width - 4); toastView != "" {
		screen += "\n" + toastView
	}
	return screen
}

// refreshTranscript rebuilds the viewport content from the controller.
func (m *Model) refreshTranscript() {
	msgs := m.controller.Messages()
	if len(msgs) == 0 {
		m.viewport.SetContent(styles.HelpStyle.Render("\n  Ask anything. Answers cite their sources.\n"))
		return
	}

	var sb strings.Builder
	for i := range msgs {
		sb.WriteString(m.renderMessage(&msgs[i]))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())
}

// renderMessage renders one bubble: role label, content, citations.
func (m *Model) renderMessage(msg *model.Message) string {
	label := styles.RoleLabelStyle.Render(msg.Role.DisplayName())
	timestamp := styles.TimestampStyle.Render(msg.Timestamp.Format("15:04"))

	content := msg.Content
	bubble := styles.UserBubbleStyle
	if msg.Role == model.RoleAssistant {
		bubble = styles.AssistantBubbleStyle
		// Assistant answers are markdown; user text stays verbatim.
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(content); err == nil {
				content = strings.TrimRight(rendered, "\n")
			}
		}
	}

	maxWidth := m.width - 4
	if maxWidth > 0 {
		bubble = bubble.MaxWidth(maxWidth)
	}

	out := label + " " + timestamp + "\n" + bubble.Render(content)

	if msg.HasSources() && m.cfg.UI.ShowSources {
		out += "\n" + m.renderSources(msg.Sources)
	}
	return out + "\n"
}

// renderSources lists citations under an assistant message.
func (m *Model) renderSources(sources []model.Source) string {
	var sb strings.Builder
	for i := range sources {
		src := &sources[i]
		line := styles.SourceBadge(src.Type) + " " + src.Title
		if src.URL != "" {
			line += " " + styles.RenderLink(src.URL)
		}
		sb.WriteString(styles.SourceListStyle.Render(line))
		if i < len(sources)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
