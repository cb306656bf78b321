package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/webextract"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Config    webextract.Config
	Processor webextract.ArticleProcessor
	Reports   webextract.ReportWriter
	History   webextract.HistoryService
	Sleeper   webextract.Sleeper
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run     RunCmd     `cmd:"" help:"Extract every article listed in a JSON file"`
	Preview PreviewCmd `cmd:"" help:"Print the Markdown for one URL without writing files"`
	History HistoryCmd `cmd:"" help:"List recorded runs"`
	Presets PresetsCmd `cmd:"" help:"List the built-in site presets"`
}

// ConfigFlags are the extraction settings shared by run and preview. Unset
// flags leave the preset and config file values alone.
type ConfigFlags struct {
	Config string `short:"c" type:"path" help:"YAML config file"`
	Preset string `short:"p" help:"Site preset to start from (see 'webextract presets')"`

	Output        string   `short:"o" help:"Output directory"`
	BaseURL       string   `name:"base-url" help:"Base URL for resolving relative links and images"`
	MainSelector  string   `help:"CSS selector or tag name of the main content"`
	TitleSelector string   `help:"CSS selector or tag name of the title"`
	Skip          []string `sep:"none" help:"Selector of content to drop (repeatable)"`
	Engine        string   `help:"Markdown converter: native or commonmark"`

	NoImages         bool              `help:"Keep remote image links instead of downloading"`
	DropFailedImages bool              `help:"Remove images whose download failed"`
	SkipKeyword      []string          `help:"Skip images whose URL contains this keyword (repeatable)"`
	ImageDelay       string            `help:"Minimum spacing of image requests to one host, e.g. 300ms"`
	Timeout          string            `short:"t" help:"Request timeout, e.g. 30s"`
	Delay            string            `short:"d" help:"Delay between articles, e.g. 1s"`
	Header           map[string]string `short:"H" help:"Extra request header KEY=VALUE (repeatable)"`

	NoBold   bool `help:"Drop bold markers"`
	NoItalic bool `help:"Drop italic markers"`
	NoCode   bool `help:"Drop inline code and code block markers"`
	NoLinks  bool `help:"Keep link text only"`

	Encoding    string `help:"Output file encoding, e.g. utf-8 or gbk"`
	FrontMatter bool   `help:"Write YAML front matter"`
	SourceLink  bool   `help:"Add a source link under the title"`
	NoIndex     bool   `help:"Do not write the README index"`
	NoFailed    bool   `help:"Do not write failed_urls.json"`
	Quiet       bool   `short:"q" help:"Only log warnings and errors"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Articles string `arg:"" type:"existingfile" help:"JSON file with a list of {title, url} objects"`

	ConfigFlags `embed:""`

	DB        string `env:"WEBEXTRACT_DB" help:"History database path (default: <output>/.webextract.db)"`
	NoHistory bool   `help:"Do not record the run"`
	Resume    bool   `help:"Skip URLs a previous run extracted successfully"`
}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	URL   string `arg:"" help:"Article URL"`
	Title string `help:"Article title"`

	ConfigFlags `embed:""`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	DB    string `env:"WEBEXTRACT_DB" default:"extracted_articles/.webextract.db" help:"History database path"`
	Limit int    `short:"n" default:"10" help:"Number of runs to show"`
	RunID string `name:"run" help:"Show the articles of one run"`
}

// PresetsCmd is the "presets" subcommand.
type PresetsCmd struct{}
