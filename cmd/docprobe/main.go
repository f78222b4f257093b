// Command docprobe fetches a single documentation page through the full
// extraction chain and prints the resulting markdown. It exists to answer
// one question quickly: what would docpack make of this page?
package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/docpack/docpack"
	"github.com/docpack/docpack/crawl"
	"github.com/docpack/docpack/goquery"
	"github.com/docpack/docpack/htmltomarkdown"
	dochttp "github.com/docpack/docpack/http"
	"github.com/docpack/docpack/readability"
	"github.com/docpack/docpack/rod"
	"github.com/docpack/docpack/trafilatura"
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
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL           string        `arg:"" required:"" help:"Page URL to probe"`
	NoRender      bool          `help:"Never fall back to browser rendering"`
	Timeout       time.Duration `short:"t" default:"10s" help:"Fetch timeout"`
	ThinThreshold int           `default:"200" help:"Re-render when the direct fetch comes in under this many tokens"`
	Links         bool          `short:"l" help:"Print discovered paths instead of content"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docprobe"),
		kong.Description("Fetch one documentation page and print its extracted markdown"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URL provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	direct := dochttp.NewFetcher(dochttp.WithTimeout(cli.Timeout))
	defer direct.Close()

	var renderer docpack.Fetcher
	if !cli.NoRender {
		rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --no-render")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer rodFetcher.Close()
		renderer = rodFetcher
	}

	return probe(ctx, cli, direct, renderer, stdout, stderr)
}

// probe runs one page through the extraction chain and reports the result.
func probe(ctx context.Context, cli *CLI, direct, renderer docpack.Fetcher, stdout, stderr io.Writer) error {
	pageURL, err := url.Parse(cli.URL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", cli.URL, err)
	}
	if pageURL.Scheme == "" || pageURL.Host == "" {
		return fmt.Errorf("URL %q must be absolute", cli.URL)
	}

	base := *pageURL
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	pages := &crawl.PageFetcher{
		BaseURL:       base.String(),
		Direct:        direct,
		Renderer:      renderer,
		Extractor:     goquery.NewExtractor(&trafilatura.Extractor{Fallback: readability.NewExtractor()}),
		Links:         goquery.NewLinkExtractor(""),
		Converter:     htmltomarkdown.NewConverter(),
		ThinThreshold: cli.ThinThreshold,
	}

	result, err := pages.FetchPage(ctx, docpack.PageTask{Path: pageURL.Path})
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(stderr, "fetched %s method=%s title=%q links=%d %s\n",
		result.URL, result.FetchMethod, result.Title, len(result.DiscoveredPaths),
		crawl.FormatTokens(docpack.EstimateTokens(result.Content)))

	if cli.Links {
		for _, p := range result.DiscoveredPaths {
			fmt.Fprintln(stdout, p)
		}
		return nil
	}

	fmt.Fprintln(stdout, result.Content)
	return nil
}
