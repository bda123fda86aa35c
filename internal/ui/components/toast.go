// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Non-blocking toast notifications. Toasts render in a corner stack and
// auto-dismiss, so the user keeps typing while errors are displayed.
package components

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/scholar-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast (cyan)
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast (rose)
	ToastKindError
	// ToastKindWarning is a warning toast (amber)
	ToastKindWarning
	// ToastKindSuccess is a success toast (emerald)
	ToastKindSuccess
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts.
const ErrorToastDuration = 8 * time.Second

// Toast is one notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
	ShowRetry bool
}

// IsExpired returns true if the toast should be dismissed.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager owns the active toast stack. Safe for use from tea.Cmd
// goroutines.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []Toast
	nextID    int
	maxToasts int
}

// NewToastManager creates a manager holding at most three visible toasts.
func NewToastManager() *ToastManager {
	return &ToastManager{maxToasts: 3}
}

// AddError pushes an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.add(Toast{Message: message, Kind: ToastKindError, Duration: ErrorToastDuration})
}

// AddRetryableError pushes an error toast carrying a retry hint.
func (m *ToastManager) AddRetryableError(message string) int {
	return m.add(Toast{Message: message, Kind: ToastKindError, Duration: ErrorToastDuration, ShowRetry: true})
}

// AddStatus pushes an informational toast.
func (m *ToastManager) AddStatus(message string) int {
	return m.add(Toast{Message: message, Kind: ToastKindStatus, Duration: DefaultToastDuration})
}

// AddSuccess pushes a success toast.
func (m *ToastManager) AddSuccess(message string) int {
	return m.add(Toast{Message: message, Kind: ToastKindSuccess, Duration: DefaultToastDuration})
}

func (m *ToastManager) add(t Toast) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	t.ID = m.nextID
	t.CreatedAt = time.Now()

	m.toasts = append(m.toasts, t)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[len(m.toasts)-m.maxToasts:]
	}
	return t.ID
}

// Dismiss removes a toast by ID.
func (m *ToastManager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.toasts {
		if m.toasts[i].ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Prune drops expired toasts and returns whether any remain.
func (m *ToastManager) Prune() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired() {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
	return len(m.toasts) > 0
}

// Active returns a copy of the visible toasts, oldest first.
func (m *ToastManager) Active() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderToastStack renders the active toasts as a vertical stack.
func (m *ToastManager) RenderToastStack(width int) string {
	toasts := m.Active()
	if len(toasts) == 0 {
		return ""
	}

	var lines []string
	for i := range toasts {
		lines = append(lines, renderToast(&toasts[i], width))
	}
	return strings.Join(lines, "\n")
}

func renderToast(t *Toast, width int) string {
	var border lipgloss.AdaptiveColor
	var label string

	switch t.Kind {
	case ToastKindError:
		border = styles.Rose
		label = styles.StatusIndicators.Error
	case ToastKindWarning:
		border = styles.Amber
		label = styles.StatusIndicators.Warning
	case ToastKindSuccess:
		border = styles.Emerald
		label = styles.StatusIndicators.Success
	default:
		border = styles.Cyan
		label = styles.StatusIndicators.Info
	}

	text := label + " " + t.Message
	if t.ShowRetry {
		text += "  " + styles.HelpStyle.Render("[r] Retry")
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if width > 4 {
		style = style.MaxWidth(width)
	}
	return style.Render(text)
}
