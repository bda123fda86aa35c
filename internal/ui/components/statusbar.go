// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/scholar-tui/internal/api"
	"github.com/jeranaias/scholar-tui/internal/ui/styles"
	"github.com/jeranaias/scholar-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom line: backend health, session id, key hints.
type StatusBar struct {
	Health    api.HealthStatus
	SessionID string
	Hints     string
	Width     int
}

// View renders the status bar at the configured width.
func (b StatusBar) View() string {
	left := b.healthSegment()
	if b.SessionID != "" {
		sessionSeg := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("session " + util.TruncateRunesNoEllipsis(b.SessionID, 12))
		left += "  " + sessionSeg
	}

	right := styles.HelpStyle.Render(b.Hints)

	gap := b.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return styles.StatusBarStyle.Width(b.Width).Render(line)
}

func (b StatusBar) healthSegment() string {
	switch b.Health {
	case api.HealthOK:
		return lipgloss.NewStyle().Foreground(styles.Emerald).Render(styles.StatusIndicators.Active + " " + b.Health.String())
	case api.HealthDown:
		return lipgloss.NewStyle().Foreground(styles.Rose).Render(styles.StatusIndicators.Error + " " + b.Health.String())
	default:
		return lipgloss.NewStyle().Foreground(styles.Amber).Render(styles.StatusIndicators.Pending + " " + b.Health.String())
	}
}
