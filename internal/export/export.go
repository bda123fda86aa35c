// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders archived sessions to shareable formats.
package export

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jeranaias/scholar-tui/internal/model"
	"github.com/jeranaias/scholar-tui/internal/storage"
)

// Format identifies an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "markdown", "md":
		return FormatMarkdown, true
	case "json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// Render exports an archived session in the given format.
func Render(arch *storage.ArchivedSession, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(arch)
	default:
		return []byte(Markdown(arch)), nil
	}
}

// Markdown renders the transcript as a Markdown document. Citations appear
// as a link list under the message that carried them.
func Markdown(arch *storage.ArchivedSession) string {
	var sb strings.Builder

	title := arch.Title
	if title == "" {
		title = "Research session"
	}
	sb.WriteString("# " + title + "\n\n")
	if arch.SessionID != "" {
		sb.WriteString("Session: " + arch.SessionID + "\n\n")
	}
	sb.WriteString("Created: " + arch.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for i := range arch.Messages {
		msg := &arch.Messages[i]
		sb.WriteString("**" + msg.Role.DisplayName() + "** (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if msg.HasSources() {
			sb.WriteString("\nSources:\n\n")
			for _, src := range msg.Sources {
				sb.WriteString(formatSourceLine(src))
			}
		}
		sb.WriteString("\n---\n\n")
	}

	return sb.String()
}

func formatSourceLine(src model.Source) string {
	var sb strings.Builder
	sb.WriteString("- ")
	if src.URL != "" {
		sb.WriteString("[" + src.Title + "](" + src.URL + ")")
	} else {
		sb.WriteString(src.Title)
	}
	if src.Type != "" {
		sb.WriteString(" (" + src.Type.Label() + ")")
	}
	sb.WriteString("\n")
	return sb.String()
}

// JSON renders the transcript as pretty-printed JSON.
func JSON(arch *storage.ArchivedSession) ([]byte, error) {
	return json.MarshalIndent(arch, "", "  ")
}
