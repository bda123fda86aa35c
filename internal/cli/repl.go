// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/scholar-tui/internal/model"
	"github.com/jeranaias/scholar-tui/internal/session"
	"github.com/jeranaias/scholar-tui/internal/storage"
)

// =============================================================================
// REPL
// =============================================================================

// runREPL is the line-mode chat for terminals where the full TUI is not an
// option (dumb terminals, screen readers, ssh through odd multiplexers).
func (a *App) runREPL() int {
	controller := session.NewController(a.client)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := filepath.Join(filepath.Dir(a.cfg.History.Dir), "repl_history")
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("scholar repl - /new starts a fresh chat, /quit exits")

	for {
		input, err := line.Prompt("> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			break
		}

		text := strings.TrimSpace(input)
		switch text {
		case "":
			continue
		case "/quit", "/exit":
			a.archiveREPL(controller)
			return 0
		case "/new":
			a.archiveREPL(controller)
			controller.StartNew()
			fmt.Println("Started a new chat.")
			continue
		case "/id":
			if id := controller.SessionID(); id != "" {
				fmt.Println(id)
			} else {
				fmt.Println("(no session yet)")
			}
			continue
		}

		line.AppendHistory(input)

		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout())
		controller.Send(ctx, text)
		cancel()

		printLastReply(controller)
	}

	a.archiveREPL(controller)
	return 0
}

// printLastReply prints the assistant message the send just appended.
func printLastReply(controller *session.Controller) {
	msgs := controller.Messages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	if last.Role != model.RoleAssistant {
		return
	}

	fmt.Println("\n" + last.Content)
	if last.HasSources() {
		fmt.Println("\nSources:")
		for _, src := range last.Sources {
			entry := "  - " + src.Title
			if src.URL != "" {
				entry += " <" + src.URL + ">"
			}
			fmt.Println(entry)
		}
	}
	fmt.Println()
}

// archiveREPL saves the transcript locally when history is enabled.
func (a *App) archiveREPL(controller *session.Controller) {
	if !a.cfg.History.Enabled || len(controller.Messages()) == 0 {
		return
	}
	store, err := storage.NewHistoryStoreWithDir(a.cfg.History.Dir)
	if err != nil {
		return
	}
	store.MaxSessions = a.cfg.History.MaxSessions
	store.Save(controller.Snapshot())
}
