// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the client-held view of a chat session. The ID starts
// empty and is adopted from the first server response that carries one;
// AdoptID is the only place the assignment happens.
type Conversation struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates an empty conversation with no session ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		Messages:  make([]Message, 0, 16),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AdoptID records the server-assigned session ID. The first non-empty ID
// wins; later calls are ignored so a stale response can never rebind the
// conversation to a different session. Returns true if the ID was adopted.
func (c *Conversation) AdoptID(id string) bool {
	if id == "" || c.ID != "" {
		return false
	}
	c.ID = id
	return true
}

// Append adds a message to the conversation and bumps UpdatedAt.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	if c.Title == "" && msg.Role == RoleUser {
		c.Title = msg.Preview(50)
	}
}

// Reset clears all messages, the title, and the session ID. The conversation
// is reusable afterwards; calling Reset on an empty conversation is a no-op
// in effect.
func (c *Conversation) Reset() {
	c.ID = ""
	c.Title = ""
	c.Messages = c.Messages[:0]
	c.UpdatedAt = time.Now()
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// CountByRole returns the number of messages with the given role.
func (c *Conversation) CountByRole(role Role) int {
	n := 0
	for i := range c.Messages {
		if c.Messages[i].Role == role {
			n++
		}
	}
	return n
}
