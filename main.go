// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// scholar is a terminal client for the Scholar research-assistant backend:
// interactive chat with cited sources, a research dashboard, local history,
// and plain line-mode commands for scripts and dumb terminals.
package main

import (
	"os"

	"github.com/jeranaias/scholar-tui/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
