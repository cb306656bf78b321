package webextract

import (
	"maps"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"
)

// DefaultUserAgent is sent with every request unless Headers overrides it.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// FailedImagePolicy decides what happens to an image reference whose
// download failed.
type FailedImagePolicy string

// Failed image policies.
const (
	// KeepRemoteURL rewrites the reference to the resolved remote URL.
	KeepRemoteURL FailedImagePolicy = "keep"
	// DropImage removes the reference from the Markdown.
	DropImage FailedImagePolicy = "drop"
)

// Engine selects the Markdown converter implementation.
type Engine string

// Converter engines.
const (
	EngineNative     Engine = "native"
	EngineCommonMark Engine = "commonmark"
)

// FormatOptions toggles format preservation during conversion.
// A disabled construct degrades to its plain inner text.
type FormatOptions struct {
	Bold   bool
	Italic bool
	Code   bool
	Links  bool
}

// Config is the extraction configuration for one run. It is built once,
// before the batch starts, and read-only afterwards.
type Config struct {
	BaseURL   string
	OutputDir string

	// Selectors are CSS selectors or bare tag names.
	MainContentSelector string
	TitleSelector       string
	SkipSelectors       []string

	DownloadImages    bool
	ImageSkipKeywords []string
	ImagesFolderName  string
	FailedImagePolicy FailedImagePolicy
	// ImageDelay spaces out consecutive image requests to the same host.
	ImageDelay time.Duration

	PreserveBold   bool
	PreserveItalic bool
	PreserveCode   bool
	PreserveLinks  bool
	Engine         Engine

	Timeout time.Duration
	Delay   time.Duration
	Headers map[string]string

	FileEncoding string
	FrontMatter  bool
	SourceLink   bool
	CreateIndex  bool

	Verbose        bool
	SaveFailedURLs bool
}

// DefaultConfig returns a Config populated with the documented defaults.
func DefaultConfig() Config {
	return Config{
		OutputDir:           "extracted_articles",
		MainContentSelector: "main",
		TitleSelector:       "h1",
		SkipSelectors:       []string{"nav", "aside", "footer"},
		DownloadImages:      true,
		ImageSkipKeywords:   []string{"icon", "avatar", "logo"},
		ImagesFolderName:    "imgs",
		FailedImagePolicy:   KeepRemoteURL,
		ImageDelay:          300 * time.Millisecond,
		PreserveBold:        true,
		PreserveItalic:      true,
		PreserveCode:        true,
		PreserveLinks:       true,
		Engine:              EngineNative,
		Timeout:             30 * time.Second,
		Delay:               time.Second,
		Headers:             map[string]string{"User-Agent": DefaultUserAgent},
		FileEncoding:        "utf-8",
		CreateIndex:         true,
		Verbose:             true,
		SaveFailedURLs:      true,
	}
}

// Format returns the format preservation flags.
func (c Config) Format() FormatOptions {
	return FormatOptions{
		Bold:   c.PreserveBold,
		Italic: c.PreserveItalic,
		Code:   c.PreserveCode,
		Links:  c.PreserveLinks,
	}
}

// Clone returns a deep copy of the config so the copy's slices and
// headers can be changed without touching the original.
func (c Config) Clone() Config {
	c.SkipSelectors = slices.Clone(c.SkipSelectors)
	c.ImageSkipKeywords = slices.Clone(c.ImageSkipKeywords)
	c.Headers = maps.Clone(c.Headers)
	return c
}

// ResolveBase returns the URL relative references are resolved against:
// BaseURL when configured, otherwise the article's own URL.
func (c Config) ResolveBase(articleURL string) string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return articleURL
}

// Validate returns an error if the config contains invalid fields.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return Errorf(EINVALID, "output directory required")
	}
	if strings.TrimSpace(c.MainContentSelector) == "" {
		return Errorf(EINVALID, "main content selector required")
	}
	if strings.TrimSpace(c.TitleSelector) == "" {
		return Errorf(EINVALID, "title selector required")
	}
	for _, s := range c.SkipSelectors {
		if strings.TrimSpace(s) == "" {
			return Errorf(EINVALID, "skip selectors must not be empty")
		}
	}
	if c.ImagesFolderName == "" || strings.ContainsAny(c.ImagesFolderName, `/\`) {
		return Errorf(EINVALID, "invalid images folder name %q", c.ImagesFolderName)
	}
	switch c.FailedImagePolicy {
	case KeepRemoteURL, DropImage:
	default:
		return Errorf(EINVALID, "unknown failed image policy %q", c.FailedImagePolicy)
	}
	switch c.Engine {
	case EngineNative, EngineCommonMark:
	default:
		return Errorf(EINVALID, "unknown converter engine %q", c.Engine)
	}
	if c.Timeout < 0 || c.Delay < 0 || c.ImageDelay < 0 {
		return Errorf(EINVALID, "durations must not be negative")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return Errorf(EINVALID, "invalid base URL %q", c.BaseURL)
		}
	}
	return nil
}

// presets holds configs for sites the extractor is routinely pointed at.
var presets = map[string]func() Config{
	"golangstar": func() Config {
		c := DefaultConfig()
		c.BaseURL = "https://golangstar.cn"
		c.SkipSelectors = []string{"nav", "aside", "footer", ".VPDocFooter", ".VPSidebar"}
		c.ImageSkipKeywords = []string{"icon", "avatar"}
		return c
	},
	"generic_blog": func() Config {
		c := DefaultConfig()
		c.MainContentSelector = "article"
		c.SkipSelectors = []string{"nav", "aside", "footer", "header"}
		return c
	},
	"juejin": func() Config {
		c := DefaultConfig()
		c.BaseURL = "https://juejin.cn"
		c.MainContentSelector = "article"
		c.TitleSelector = "h1.article-title"
		c.SkipSelectors = []string{"nav", "aside", "footer", ".author-info"}
		return c
	},
	"aliyun_developer": func() Config {
		c := DefaultConfig()
		c.BaseURL = "https://developer.aliyun.com"
		c.MainContentSelector = ".article-content"
		c.SkipSelectors = []string{"nav", "aside", "footer", "header", ".comment", ".related", ".author-info"}
		c.ImageSkipKeywords = []string{"icon", "avatar", "logo", "qrcode"}
		return c
	},
}

// Preset returns the named preset config.
// Returns ENOTFOUND if no preset has that name.
func Preset(name string) (Config, error) {
	fn, ok := presets[name]
	if !ok {
		return Config{}, Errorf(ENOTFOUND, "unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return fn(), nil
}

// PresetNames returns the names of all presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
