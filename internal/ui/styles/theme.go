// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/scholar-tui/internal/model"
)

// =============================================================================
// SHARED STYLES
// =============================================================================

// Header bar across the top of both TUI views.
var HeaderStyle = lipgloss.NewStyle().
	Foreground(Cyan).
	Bold(true).
	Padding(0, 1)

// StatusBarStyle renders the bottom status line.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Background(SurfaceDim).
	Padding(0, 1)

// HelpStyle renders key hints.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// =============================================================================
// CHAT STYLES
// =============================================================================

// UserBubbleStyle frames the user's messages.
var UserBubbleStyle = lipgloss.NewStyle().
	Foreground(UserBubbleFg).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(UserBubbleBorder).
	Padding(0, 1)

// AssistantBubbleStyle frames assistant replies.
var AssistantBubbleStyle = lipgloss.NewStyle().
	Foreground(AssistantBubbleFg).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(AssistantBubbleBorder).
	Padding(0, 1)

// RoleLabelStyle renders the sender name above a bubble.
var RoleLabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Bold(true)

// SourceListStyle indents the citation list under an assistant message.
var SourceListStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	PaddingLeft(2)

// TimestampStyle renders message times.
var TimestampStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// =============================================================================
// DASHBOARD STYLES
// =============================================================================

// StatCardStyle frames one aggregate counter.
var StatCardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Overlay).
	Padding(0, 2).
	Align(lipgloss.Center)

// StatValueStyle renders the big number inside a stat card.
var StatValueStyle = lipgloss.NewStyle().
	Foreground(Cyan).
	Bold(true)

// StatLabelStyle renders the caption under the number.
var StatLabelStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// SessionRowStyle renders one recent-session row.
var SessionRowStyle = lipgloss.NewStyle().
	Padding(0, 1)

// SessionRowSelectedStyle highlights the cursor row.
var SessionRowSelectedStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Foreground(TextInverse).
	Background(Purple).
	Bold(true)

// InsightCardStyle frames one insight.
var InsightCardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(AssistantBubbleBorder).
	Padding(0, 1)

// ErrorBannerStyle renders the dashboard load-failure banner.
var ErrorBannerStyle = lipgloss.NewStyle().
	Foreground(TextInverse).
	Background(Rose).
	Bold(true).
	Padding(0, 1)

// =============================================================================
// HELPERS
// =============================================================================

// SourceTypeColor returns the accent color for a citation type.
func SourceTypeColor(t model.SourceType) lipgloss.AdaptiveColor {
	switch t {
	case model.SourceAcademic:
		return SourceAcademicColor
	case model.SourceIndustry:
		return SourceIndustryColor
	default:
		return SourceWebColor
	}
}

// SourceBadge renders a colored type label like [Academic].
func SourceBadge(t model.SourceType) string {
	return lipgloss.NewStyle().
		Foreground(SourceTypeColor(t)).
		Bold(true).
		Render("[" + t.Label() + "]")
}
