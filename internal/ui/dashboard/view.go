// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/scholar-tui/internal/dashboard"
	"github.com/jeranaias/scholar-tui/internal/model"
	"github.com/jeranaias/scholar-tui/internal/ui/styles"
	"github.com/jeranaias/scholar-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the dashboard screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading dashboard..."
	}

	var sections []string
	sections = append(sections, styles.HeaderStyle.Render("scholar dashboard"))

	switch m.loader.State() {
	case dashboard.StateLoading:
		sections = append(sections, styles.HelpStyle.Render("  loading..."))
	case dashboard.StateError:
		banner := styles.ErrorBannerStyle.Render(
			styles.StatusIndicators.Error + " Could not reach the research service  [r] Retry")
		sections = append(sections, banner)
	}
	if m.lastErr != "" && m.loader.State() != dashboard.StateError {
		sections = append(sections, styles.RenderError(m.lastErr))
	}

	// Stale data still renders under the error banner; only what loaded
	// successfully is shown.
	if stats := m.loader.Stats(); stats != nil {
		sections = append(sections, m.renderStats(stats))
	}
	if sessions := m.loader.Sessions(); len(sessions) > 0 {
		sections = append(sections, m.renderSessions(sessions))
	}
	if insights := m.loader.Insights(); len(insights) > 0 {
		sections = append(sections, m.renderInsights(insights))
	}

	sections = append(sections, styles.HelpStyle.Render(
		"up/down select | x delete | r refresh | q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStats lays the four counters out as cards in a row.
func (m Model) renderStats(stats *model.DashboardStats) string {
	cards := []string{
		statCard(util.FormatCount(stats.ResearchSessions), "sessions"),
		statCard(util.FormatCount(stats.MessagesExchanged), "messages"),
		statCard(util.FormatCount(stats.SourcesCited), "sources"),
		statCard(util.FloatToString(stats.ResearchHours)+"h", "research time"),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func statCard(value, label string) string {
	content := styles.StatValueStyle.Render(value) + "\n" + styles.StatLabelStyle.Render(label)
	return styles.StatCardStyle.Render(content)
}

// renderSessions lists recent sessions with the cursor row highlighted.
func (m Model) renderSessions(sessions []model.ResearchSession) string {
	var sb strings.Builder
	sb.WriteString(styles.RoleLabelStyle.Render("Recent sessions") + "\n")

	for i, s := range sessions {
		row := m.formatSessionRow(&s)
		if i == m.cursor {
			sb.WriteString(styles.SessionRowSelectedStyle.Render(row))
		} else {
			sb.WriteString(styles.SessionRowStyle.Render(row))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) formatSessionRow(s *model.ResearchSession) string {
	title := util.TruncateWidth(s.Title, 40)
	parts := []string{
		util.PadRight(title, 42),
		util.PadRight(util.IntToString(s.Messages)+" msgs", 10),
		util.PadRight(s.LastActive, 14),
	}
	if len(s.Topics) > 0 {
		parts = append(parts, util.TruncateWidth(strings.Join(s.Topics, ", "), 30))
	}
	if s.Status != "" {
		parts = append(parts, "["+s.Status+"]")
	}
	return strings.Join(parts, " ")
}

// renderInsights stacks the insight cards.
func (m Model) renderInsights(insights []model.Insight) string {
	var sb strings.Builder
	sb.WriteString(styles.RoleLabelStyle.Render("Insights") + "\n")

	for i := range insights {
		in := &insights[i]
		content := styles.StatValueStyle.Render(in.Title) + "\n" + in.Description
		if in.Action != "" {
			content += "\n" + styles.HelpStyle.Render(in.Action)
		}
		card := styles.InsightCardStyle
		if m.width > 6 {
			card = card.MaxWidth(m.width - 4)
		}
		sb.WriteString(card.Render(content))
		sb.WriteString("\n")
	}
	return sb.String()
}
