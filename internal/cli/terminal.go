// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TERMINAL DETECTION
// =============================================================================

// IsInteractive reports whether stdout is a terminal. Plain-output paths
// and piped usage skip color and the TUI entirely.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// SupportsColor reports whether the terminal advertises any color support.
func SupportsColor() bool {
	if !IsInteractive() {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// TerminalWidth returns the terminal width, or a sane default when stdout
// is not a terminal.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
