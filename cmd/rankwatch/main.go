package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/rankwatch/internal/api"
	"github.com/hpungsan/rankwatch/internal/cache"
	"github.com/hpungsan/rankwatch/internal/config"
	"github.com/hpungsan/rankwatch/internal/mcp"
	"github.com/hpungsan/rankwatch/internal/ops"
	"github.com/hpungsan/rankwatch/internal/session"
	"github.com/hpungsan/rankwatch/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"login": true, "register": true, "logout": true, "status": true,
	"list": true, "show": true, "add": true, "crawl": true,
	"export": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _ __ __ _ _ __ | | ____      ____ _| |_ ___| |__
  | '__/ _' | '_ \| |/ /\ \ /\ / / _' | __/ __| '_ \
  | | | (_| | | | |   <  \ V  V / (_| | || (__| | | |
  |_|  \__,_|_| |_|_|\_\  \_/\_/ \__,_|\__\___|_| |_|

  Keyword ranking monitor client

  Usage: rankwatch <command> [options]
         rankwatch --help

  MCP server mode requires piped input.`)
}

// buildEnv opens the identity store, loads config, and wires the shared
// operation environment.
func buildEnv(baseDir string) (*ops.Env, *store.SQLite, error) {
	st, err := store.Open(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open identity store: %w", err)
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	st.ConfigurePool(cfg)

	if cfg.ExportDir == "" {
		cfg.ExportDir = filepath.Join(baseDir, "exports")
	}

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Printf("warning: unknown disabled tools in config: %v", unknown)
	}

	sess := session.New(st)
	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second
	client := api.New(cfg.APIBaseURL, timeout, sess)
	client.OnUnauthorized(func() { sess.SetToken("") })

	env := &ops.Env{
		Session: sess,
		Client:  client,
		Cache:   cache.New(),
		Config:  cfg,
	}
	return env, st, nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before store init (no store needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".rankwatch")

	env, st, err := buildEnv(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	// Establish the session before any command runs: a persisted token is
	// verified, and a guest identity is the fallback.
	boot := session.NewBootstrapper(env.Session, env.Client)
	boot.Run(context.Background())

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'rankwatch --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(env, env.Config, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
