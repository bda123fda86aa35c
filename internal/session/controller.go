// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the in-memory chat conversation: optimistic message
// appends, the in-flight guard, and session id adoption.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jeranaias/scholar-tui/internal/api"
	"github.com/jeranaias/scholar-tui/internal/model"
)

// ApologyMessage is appended in place of an assistant reply when a send
// fails for any reason. The chat keeps going; nothing is fatal.
const ApologyMessage = "I'm sorry, I'm having trouble connecting to the research service right now. Please try again in a moment."

var (
	// ErrEmptyInput is returned when Send is called with blank text.
	ErrEmptyInput = errors.New("empty input")

	// ErrBusy is returned when Send is called while a request is in flight.
	ErrBusy = errors.New("a request is already in flight")
)

// Sender is the slice of the backend client the controller needs.
// *api.Client satisfies it; tests substitute a stub.
type Sender interface {
	Send(ctx context.Context, message, sessionID string) (*api.SendResponse, error)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller drives one conversation. It is safe for concurrent use: the
// TUI calls Send from tea.Cmd goroutines while the view reads Messages.
//
// Send is optimistic: the user's message lands in the transcript before the
// network round-trip, so the UI renders it immediately.
type Controller struct {
	client Sender

	mu       sync.Mutex
	conv     *model.Conversation
	inFlight bool
}

// NewController creates a controller with an empty conversation.
func NewController(client Sender) *Controller {
	return &Controller{
		client: client,
		conv:   model.NewConversation(),
	}
}

// Send submits user text to the backend. The user message is appended
// synchronously before any network activity. On success the assistant reply
// (with sources) is appended and the returned session id adopted if none is
// held yet. On any failure the fixed apology is appended instead; the error
// from the backend is not propagated as a send error.
//
// Blank input returns ErrEmptyInput with no state change. A call while a
// previous send is still in flight returns ErrBusy with no state change.
func (c *Controller) Send(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyInput
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	c.inFlight = true
	c.conv.Append(model.NewUserMessage(trimmed))
	sessionID := c.conv.ID
	c.mu.Unlock()

	resp, err := c.client.Send(ctx, trimmed, sessionID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil || resp == nil {
		c.conv.Append(model.NewAssistantMessage(ApologyMessage, nil))
		return nil
	}

	c.conv.Append(model.NewAssistantMessage(resp.Message, resp.Sources))
	c.conv.AdoptID(resp.SessionID)
	return nil
}

// StartNew discards the conversation and releases the session id. Purely
// local and idempotent; the server-side session is untouched.
func (c *Controller) StartNew() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conv.Reset()
}

// Restore replaces the conversation with a transcript fetched from the
// backend, adopting its session id. Any in-progress conversation is
// discarded.
func (c *Controller) Restore(detail *api.SessionDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conv.Reset()
	c.conv.AdoptID(detail.ID)
	c.conv.Title = detail.Title
	for _, m := range detail.Messages {
		msg := model.NewMessage(model.Role(m.Role), m.Content)
		msg.Sources = m.Sources
		c.conv.Messages = append(c.conv.Messages, msg)
	}
}

// Messages returns a copy of the transcript in display order.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.conv.Messages))
	copy(out, c.conv.Messages)
	return out
}

// SessionID returns the adopted session id, or "" before the first
// successful send.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.ID
}

// Title returns the conversation title (first user message preview).
func (c *Controller) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.Title
}

// InFlight reports whether a send is currently outstanding.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Snapshot returns a deep copy of the conversation for persistence.
func (c *Controller) Snapshot() model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := *c.conv
	snap.Messages = make([]model.Message, len(c.conv.Messages))
	copy(snap.Messages, c.conv.Messages)
	return snap
}
