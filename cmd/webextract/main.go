package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/fs"
	"github.com/fwojciec/webextract/goquery"
	"github.com/fwojciec/webextract/harvest"
	"github.com/fwojciec/webextract/htmltomarkdown"
	wxhttp "github.com/fwojciec/webextract/http"
	"github.com/fwojciec/webextract/markdown"
	"github.com/fwojciec/webextract/pipeline"
	wxslog "github.com/fwojciec/webextract/slog"
	"github.com/fwojciec/webextract/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// DefaultDBName is the history database file created inside the output
// directory.
const DefaultDBName = ".webextract.db"

// Main represents the program.
type Main struct {
	// SQLite database holding run history. Nil when history is disabled.
	DB *sqlite.DB

	fetcher webextract.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.fetcher != nil {
		m.fetcher.Close()
		m.fetcher = nil
	}
	if m.DB != nil {
		err := m.DB.Close()
		m.DB = nil
		return err
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webextract"),
		kong.Description("Extract web articles to local Markdown files with their images"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webextract --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	switch strings.Fields(kongCtx.Command())[0] {
	case "run":
		cfg, err := cli.Run.Load()
		if err != nil {
			return fmt.Errorf("invalid configuration: %s", webextract.ErrorMessage(err))
		}
		deps.Config = cfg
		deps.Logger = newLogger(stderr, cfg.Verbose)

		store, err := fs.NewStore(cfg)
		if err != nil {
			return err
		}
		reports, err := fs.NewReports(cfg)
		if err != nil {
			return err
		}
		deps.Reports = reports
		if err := m.wireExtraction(deps, wxslog.NewLoggingArticleStore(store, deps.Logger)); err != nil {
			return err
		}

		if !cli.Run.NoHistory {
			path := cli.Run.DB
			if path == "" {
				path = filepath.Join(cfg.OutputDir, DefaultDBName)
			}
			if err := m.openHistory(deps, path); err != nil {
				fmt.Fprintln(stderr, "Hint: use --no-history to run without a history database")
				return err
			}
		}

	case "preview":
		cfg, err := cli.Preview.Load()
		if err != nil {
			return fmt.Errorf("invalid configuration: %s", webextract.ErrorMessage(err))
		}
		cfg.DownloadImages = false
		deps.Config = cfg
		deps.Logger = newLogger(stderr, false)
		if err := m.wireExtraction(deps, discardStore{}); err != nil {
			return err
		}

	case "history":
		if err := m.openHistory(deps, cli.History.DB); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireExtraction builds the article pipeline for deps.Config and stores it
// in deps.Processor.
func (m *Main) wireExtraction(deps *Dependencies, store webextract.ArticleStore) error {
	cfg := deps.Config
	logger := deps.Logger

	selector, err := goquery.NewSelectorFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid selector: %s", webextract.ErrorMessage(err))
	}

	opts := []wxhttp.Option{
		wxhttp.WithTimeout(cfg.Timeout),
		wxhttp.WithHeaders(cfg.Headers),
	}
	fetcher := wxslog.NewLoggingFetcher(wxhttp.NewFetcher(opts...), logger)
	m.fetcher = fetcher
	downloader := wxslog.NewLoggingDownloader(wxhttp.NewDownloader(opts...), logger)

	p := pipeline.New(
		fetcher,
		selector,
		newConverter(cfg),
		harvest.NewHarvester(downloader, store, cfg),
		store,
		cfg,
	)
	deps.Processor = wxslog.NewLoggingProcessor(p, logger)
	return nil
}

// openHistory opens the SQLite history database at path.
func (m *Main) openHistory(deps *Dependencies, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return fmt.Errorf("failed to open history database at %q: %w", path, err)
	}
	deps.History = sqlite.NewHistoryService(m.DB)
	return nil
}

// newConverter returns the Markdown converter for the configured engine.
func newConverter(cfg webextract.Config) webextract.Converter {
	if cfg.Engine == webextract.EngineCommonMark {
		return htmltomarkdown.NewConverter(cfg.Format())
	}
	return markdown.NewConverter(cfg.Format())
}

// newLogger returns a text logger on w. Without verbose output only
// warnings and errors are shown.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
