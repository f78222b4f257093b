package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/docpack/docpack"
	"github.com/docpack/docpack/gemini"
	dochttp "github.com/docpack/docpack/http"
	"github.com/docpack/docpack/rod"
	docslog "github.com/docpack/docpack/slog"
	"github.com/docpack/docpack/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Run history database path. Set before calling Run().
	DBPath string

	// SQLite database backing the run log.
	DB *sqlite.DB

	// RunLog service for end-to-end testing.
	RunLog docpack.RunLog
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docpack"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docpack --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cmd == "build" && cli.Build.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	defer m.Close()

	// Wire command-specific dependencies based on command
	if cmd == "build" {
		if cli.Build.HistoryDB != "" {
			m.DBPath = cli.Build.HistoryDB
		}
		if !cli.Build.DryRun {
			// The run log is bookkeeping. A broken database must not
			// block a build.
			db := sqlite.NewDB(m.DBPath)
			if err := db.Open(); err != nil {
				fmt.Fprintf(stderr, "warning: run history disabled: %v\n", err)
			} else {
				m.DB = db
				m.RunLog = sqlite.NewRunLogService(db)
				deps.RunLog = m.RunLog
			}

			direct := dochttp.NewFetcher()
			defer direct.Close()
			deps.Fetcher = docslog.NewLoggingFetcher(direct, deps.Logger)

			if !cli.Build.NoRender {
				renderer, err := rod.NewFetcher()
				if err != nil {
					fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --no-render")
					return fmt.Errorf("failed to start browser: %w", err)
				}
				defer renderer.Close()
				deps.Renderer = docslog.NewLoggingFetcher(renderer, deps.Logger)
			}

			if cli.Build.CountTokens {
				tc, err := gemini.NewTokenCounter(gemini.DefaultModel)
				if err != nil {
					return fmt.Errorf("failed to create token counter: %w", err)
				}
				deps.Tokens = tc
			}
		}
	}

	if cmd == "history" {
		if cli.History.DB != "" {
			m.DBPath = cli.History.DB
		}
		db := sqlite.NewDB(m.DBPath)
		if err := db.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DOCPACK_DB to use a different database path\n")
			return fmt.Errorf("failed to open run history at %q: %w", m.DBPath, err)
		}
		m.DB = db
		m.RunLog = sqlite.NewRunLogService(db)
		deps.RunLog = m.RunLog
	}

	if cmd == "discover" {
		deps.Sitemaps = docslog.NewLoggingSitemapService(dochttp.NewSitemapService(nil), deps.Logger)
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("DOCPACK_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docpack.db"
	}
	dir := filepath.Join(home, ".docpack")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docpack.db")
}
