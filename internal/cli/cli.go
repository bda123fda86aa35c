// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements scholar's command dispatch and line-mode commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/scholar-tui/internal/api"
	"github.com/jeranaias/scholar-tui/internal/config"
	"github.com/jeranaias/scholar-tui/internal/dashboard"
	"github.com/jeranaias/scholar-tui/internal/export"
	"github.com/jeranaias/scholar-tui/internal/model"
	"github.com/jeranaias/scholar-tui/internal/session"
	"github.com/jeranaias/scholar-tui/internal/storage"
	chatui "github.com/jeranaias/scholar-tui/internal/ui/chat"
	dashui "github.com/jeranaias/scholar-tui/internal/ui/dashboard"
	"github.com/jeranaias/scholar-tui/internal/util"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `scholar - terminal client for the Scholar research assistant

Usage:
  scholar [command] [args]

Commands:
  chat                     interactive chat (default)
  dashboard                research dashboard
  ask <question>           one-shot question, prints answer and sources
  search <query>           search research sources (--type academic|industry|web,
                           --limit N, --sources-only for the lightweight lookup)
  repl                     line-mode chat for dumb terminals
  sessions list            list backend sessions
  sessions show <id>       print one session transcript
  sessions delete <id>     delete a backend session
  history list             list locally archived sessions
  history search <query>   search archived transcripts
  history export <id>      export an archive (--format markdown|json)
  history delete <id>      delete an archive
  status                   check backend health
  config show              print the effective configuration
  config init              write a default config file
  version                  print version
  help                     this text

Environment:
  SCHOLAR_BACKEND_URL      override the backend API root
`

// =============================================================================
// DISPATCH
// =============================================================================

// App wires the pieces every command needs.
type App struct {
	cfg    *config.Config
	client *api.Client
}

// Run parses args and dispatches. Returns the process exit code.
func Run(args []string) int {
	parser := NewArgParser(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
		return 1
	}

	app := &App{
		cfg: cfg,
		client: api.NewClientWithConfig(&api.ClientConfig{
			BaseURL:     cfg.Backend.URL,
			Timeout:     cfg.Timeout(),
			LogRequests: cfg.Backend.LogRequests,
		}),
	}

	switch parser.Subcommand() {
	case "", "chat":
		return app.runChat()
	case "dashboard":
		return app.runDashboard()
	case "ask":
		return app.runAsk(parser)
	case "search":
		return app.runSearch(parser)
	case "repl":
		return app.runREPL()
	case "sessions":
		return app.runSessions(parser)
	case "history":
		return app.runHistory(parser)
	case "status":
		return app.runStatus()
	case "config":
		return app.runConfig(parser)
	case "version":
		fmt.Println("scholar " + Version)
		return 0
	case "help", "-h", "--help":
		fmt.Print(usage)
		return 0
	default:
		fmt.Fprintln(os.Stderr, "scholar: unknown command "+parser.Subcommand())
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
}

// =============================================================================
// TUI COMMANDS
// =============================================================================

func (a *App) runChat() int {
	if !IsInteractive() {
		fmt.Fprintln(os.Stderr, "scholar: chat needs a terminal; try `scholar ask <question>`")
		return 1
	}

	controller := session.NewController(a.client)
	monitor := api.NewMonitor(a.client, a.cfg.HealthInterval())

	var store *storage.HistoryStore
	if a.cfg.History.Enabled {
		s, err := storage.NewHistoryStoreWithDir(a.cfg.History.Dir)
		if err == nil {
			s.MaxSessions = a.cfg.History.MaxSessions
			store = s
		}
	}

	m := chatui.New(controller, monitor, store, a.cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Live config reload: edits to ~/.scholar/config.toml apply without a
	// restart. Best effort; the chat runs fine without the watcher.
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if path, err := config.Path(); err == nil {
		if w, err := config.NewWatcher(path); err == nil {
			go w.Run(watchCtx)
			go func() {
				for cfg := range w.Updates() {
					p.Send(chatui.ConfigReloadedMsg{Cfg: cfg})
				}
			}()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
		return 1
	}

	// Archive the final transcript on exit.
	if store != nil && len(controller.Messages()) > 0 {
		store.Save(controller.Snapshot())
	}
	return 0
}

func (a *App) runDashboard() int {
	if !IsInteractive() {
		fmt.Fprintln(os.Stderr, "scholar: dashboard needs a terminal")
		return 1
	}

	loader := dashboard.NewLoader(a.client)
	m := dashui.New(loader)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
		return 1
	}
	return 0
}

// =============================================================================
// ONE-SHOT COMMANDS
// =============================================================================

func (a *App) runAsk(parser *ArgParser) int {
	question := parser.JoinPositionalFrom(1)
	if strings.TrimSpace(question) == "" {
		fmt.Fprintln(os.Stderr, "scholar: usage: scholar ask <question>")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout())
	defer cancel()

	resp, err := a.client.Send(ctx, question, parser.Flag("session"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
		return 1
	}

	fmt.Println(resp.Message)
	if len(resp.Sources) > 0 && !parser.BoolFlag("no-sources") {
		fmt.Println("\nSources:")
		printSources(resp.Sources)
	}
	if resp.SessionID != "" {
		fmt.Fprintln(os.Stderr, "session: "+resp.SessionID)
	}
	return 0
}

func (a *App) runSearch(parser *ArgParser) int {
	query := parser.JoinPositionalFrom(1)
	if strings.TrimSpace(query) == "" {
		fmt.Fprintln(os.Stderr, "scholar: usage: scholar search <query>")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout())
	defer cancel()

	// --sources-only hits the lightweight lookup instead of the full search.
	if parser.BoolFlag("sources-only") {
		sources, err := a.client.ResearchSources(ctx, query)
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		if len(sources) == 0 {
			fmt.Println("No sources found.")
			return 0
		}
		printSources(sources)
		return 0
	}

	var filters map[string]string
	if t := parser.Flag("type"); t != "" {
		filters = map[string]string{"source_type": t}
	}
	if n := parser.Flag("limit"); n != "" {
		if filters == nil {
			filters = map[string]string{}
		}
		filters["max_results"] = n
	}

	resp, err := a.client.ResearchSearch(ctx, query, filters)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
		return 1
	}
	if len(resp.Results) == 0 {
		fmt.Println("No results.")
		return 0
	}
	printSources(resp.Results)
	if resp.Total > len(resp.Results) {
		fmt.Printf("\n%d of %d results shown\n", len(resp.Results), resp.Total)
	}
	return 0
}

func printSources(sources []model.Source) {
	for _, src := range sources {
		line := "  - " + src.Title
		if src.URL != "" {
			line += " <" + src.URL + ">"
		}
		if src.Type != "" {
			line += " (" + src.Type.Label() + ")"
		}
		fmt.Println(line)
	}
}

func (a *App) runStatus() int {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := a.client.Health(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "backend unavailable: "+err.Error())
		return 1
	}
	if !health.Healthy() {
		fmt.Println("backend degraded: " + health.Message)
		return 1
	}
	fmt.Println("backend healthy: " + health.Message)
	return 0
}

// =============================================================================
// SESSIONS COMMANDS (backend)
// =============================================================================

func (a *App) runSessions(parser *ArgParser) int {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout())
	defer cancel()

	switch parser.Positional(1) {
	case "", "list":
		sessions, err := a.client.ListSessions(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions.")
			return 0
		}
		for _, s := range sessions {
			fmt.Printf("%-36s  %4d msgs  %s\n", s.ID, s.MessageCount, util.TruncateRunes(s.Title, 50))
		}
		return 0

	case "show":
		id, err := parser.RequirePositional(2, "session id")
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 2
		}
		detail, err := a.client.GetSession(ctx, id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		fmt.Println("# " + detail.Title)
		for _, msg := range detail.Messages {
			fmt.Printf("\n[%s]\n%s\n", msg.Role, msg.Content)
			for _, src := range msg.Sources {
				fmt.Println("  - " + src.Title + " <" + src.URL + ">")
			}
		}
		return 0

	case "delete":
		id, err := parser.RequirePositional(2, "session id")
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 2
		}
		if err := a.client.DeleteSession(ctx, id); err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		fmt.Println("Deleted " + id)
		return 0

	default:
		fmt.Fprintln(os.Stderr, "scholar: usage: scholar sessions list|show|delete")
		return 2
	}
}

// =============================================================================
// HISTORY COMMANDS (local archive)
// =============================================================================

func (a *App) runHistory(parser *ArgParser) int {
	store, err := storage.NewHistoryStoreWithDir(a.cfg.History.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
		return 1
	}
	store.MaxSessions = a.cfg.History.MaxSessions

	switch parser.Positional(1) {
	case "", "list":
		metas, err := store.List()
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		printHistoryList(metas)
		return 0

	case "search":
		query := parser.JoinPositionalFrom(2)
		if query == "" {
			fmt.Fprintln(os.Stderr, "scholar: usage: scholar history search <query>")
			return 2
		}
		metas, err := store.Search(query)
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		printHistoryList(metas)
		return 0

	case "export":
		id, err := parser.RequirePositional(2, "archive id")
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 2
		}
		arch, err := store.Load(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		format, ok := export.ParseFormat(parser.FlagOrDefault("format", "markdown"))
		if !ok {
			fmt.Fprintln(os.Stderr, "scholar: unknown format; use markdown or json")
			return 2
		}
		data, err := export.Render(arch, format)
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		if out := parser.Flag("out"); out != "" {
			if err := os.WriteFile(out, data, 0644); err != nil {
				fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
				return 1
			}
			fmt.Println("Wrote " + out)
			return 0
		}
		os.Stdout.Write(data)
		return 0

	case "delete":
		id, err := parser.RequirePositional(2, "archive id")
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 2
		}
		if err := store.Delete(id); err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		fmt.Println("Deleted " + id)
		return 0

	case "clear":
		if !parser.BoolFlag("yes") {
			fmt.Fprintln(os.Stderr, "scholar: pass --yes to delete all archived sessions")
			return 2
		}
		if err := store.Clear(); err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		fmt.Println("History cleared.")
		return 0

	default:
		fmt.Fprintln(os.Stderr, "scholar: usage: scholar history list|search|export|delete|clear")
		return 2
	}
}

func printHistoryList(metas []storage.SessionMeta) {
	if len(metas) == 0 {
		fmt.Println("No archived sessions.")
		return
	}
	for _, m := range metas {
		fmt.Printf("%-24s  %s  %4d msgs  %s\n",
			m.LocalID,
			m.UpdatedAt.Format("2006-01-02 15:04"),
			m.MessageCount,
			util.TruncateRunes(m.Preview, 48))
	}
}

// =============================================================================
// CONFIG COMMANDS
// =============================================================================

func (a *App) runConfig(parser *ArgParser) int {
	switch parser.Positional(1) {
	case "", "show":
		fmt.Println("backend.url              = " + a.cfg.Backend.URL)
		fmt.Println("backend.timeout_seconds  = " + util.IntToString(a.cfg.Backend.TimeoutSeconds))
		fmt.Println("history.enabled          = " + boolString(a.cfg.History.Enabled))
		fmt.Println("history.dir              = " + a.cfg.History.Dir)
		fmt.Println("history.max_sessions     = " + util.IntToString(a.cfg.History.MaxSessions))
		fmt.Println("ui.theme                 = " + a.cfg.UI.Theme)
		fmt.Println("ui.show_sources          = " + boolString(a.cfg.UI.ShowSources))
		return 0

	case "init":
		path, err := config.Path()
		if err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		if _, err := os.Stat(path); err == nil && !parser.BoolFlag("force") {
			fmt.Fprintln(os.Stderr, "scholar: "+path+" exists; pass --force to overwrite")
			return 2
		}
		if err := config.Default().SaveTo(path); err != nil {
			fmt.Fprintln(os.Stderr, "scholar: "+err.Error())
			return 1
		}
		fmt.Println("Wrote " + path)
		return 0

	default:
		fmt.Fprintln(os.Stderr, "scholar: usage: scholar config show|init")
		return 2
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
