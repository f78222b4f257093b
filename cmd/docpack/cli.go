package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/docpack/docpack"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Fetcher retrieves raw HTML over plain HTTP.
	Fetcher docpack.Fetcher

	// Renderer retrieves browser-rendered HTML. Nil disables the
	// thin-page render fallback.
	Renderer docpack.Fetcher

	// Tokens counts exact tokens for manifest totals. Nil falls back to
	// the built-in estimate.
	Tokens docpack.TokenCounter

	// RunLog records run history. Nil disables recording.
	RunLog docpack.RunLog

	Sitemaps docpack.SitemapService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Build    BuildCmd    `cmd:"" help:"Crawl a documentation site and build its chunk artifacts"`
	Discover DiscoverCmd `cmd:"" help:"Print a starter catalog from a site's sitemap"`
	History  HistoryCmd  `cmd:"" help:"List recent build runs"`
	Show     ShowCmd     `cmd:"" help:"Print one chunk from the output directory"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Catalog       string        `arg:"" help:"Seed catalog YAML file"`
	Out           string        `short:"o" default:"docpack" env:"DOCPACK_OUT" help:"Output directory"`
	Concurrency   int           `short:"c" default:"5" help:"Crawl worker count"`
	Delay         time.Duration `default:"300ms" help:"Per-worker pause between fetches"`
	MinTokens     int           `default:"100" help:"Merge sections smaller than this into a neighbor"`
	MaxTokens     int           `default:"1000" help:"Split sections larger than this"`
	ThinThreshold int           `default:"200" help:"Re-render pages whose direct fetch comes in under this many tokens"`
	MaxPages      int           `help:"Stop dispatching fetches after this many pages"`
	NoRender      bool          `help:"Never fall back to browser rendering"`
	DryRun        bool          `help:"List seeds without fetching anything"`
	CountTokens   bool          `help:"Count exact tokens for the manifest total"`
	HistoryDB     string        `help:"Run history database path"`
	Verbose       bool          `short:"v" help:"Log fetch and chunk details"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL    string   `arg:"" help:"Documentation site URL"`
	Filter []string `short:"F" name:"filter" help:"Filter paths by regex (repeatable)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	RunID string `name:"run" help:"Show page records for one run ID"`
	Limit int    `short:"n" default:"10" help:"Number of runs to list"`
	DB    string `help:"Run history database path"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID  string `arg:"" help:"Chunk ID"`
	Out string `short:"o" default:"docpack" env:"DOCPACK_OUT" help:"Output directory"`
}
