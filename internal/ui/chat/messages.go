// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the scholar TUI.
//
// This file defines the Bubble Tea message types used by the chat view:
//   - Send lifecycle: submission and completion
//   - Health: periodic backend probes
//   - Session: new chat, restore from the backend
//   - UI state: resize and toast expiry ticks
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"time"

	"github.com/jeranaias/scholar-tui/internal/api"
	"github.com/jeranaias/scholar-tui/internal/config"
)

// =============================================================================
// SEND MESSAGES
// =============================================================================

// SendStartedMsg signals that a question left for the backend. The optimistic
// user message is already in the transcript when this arrives.
type SendStartedMsg struct {
	StartTime time.Time
}

// SendCompleteMsg signals that the round-trip finished. The controller has
// already appended the reply (or the apology); the view just re-renders.
type SendCompleteMsg struct{}

// =============================================================================
// HEALTH MESSAGES
// =============================================================================

// HealthTickMsg requests a backend health probe.
type HealthTickMsg struct{}

// HealthStatusMsg reports the probe result.
type HealthStatusMsg struct {
	Status api.HealthStatus
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// NewChatMsg signals that the user started a fresh conversation.
type NewChatMsg struct{}

// SessionRestoredMsg signals that a past session was hydrated from the
// backend into the controller.
type SessionRestoredMsg struct {
	Err error
}

// ArchiveSavedMsg reports the result of archiving the transcript locally.
type ArchiveSavedMsg struct {
	LocalID string
	Err     error
}

// =============================================================================
// UI STATE MESSAGES
// =============================================================================

// ToastTickMsg drives toast expiry while any toast is visible.
type ToastTickMsg struct{}

// ConfigReloadedMsg delivers a live config reload from the file watcher.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}
