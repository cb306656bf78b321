package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/webextract"
	"golang.org/x/text/encoding"
)

// Batch-level output files, relative to the output directory.
const (
	FailedURLsFile = "failed_urls.json"
	IndexFile      = "README.md"
)

// Ensure Reports implements webextract.ReportWriter at compile time.
var _ webextract.ReportWriter = (*Reports)(nil)

// Reports writes the failed URL list and the article index into the output
// directory.
type Reports struct {
	dir      string
	encoding encoding.Encoding
}

// NewReports creates a Reports for the output settings in cfg.
// Returns EINVALID if cfg.FileEncoding is not a known encoding.
func NewReports(cfg webextract.Config) (*Reports, error) {
	enc, err := LookupEncoding(cfg.FileEncoding)
	if err != nil {
		return nil, err
	}
	return &Reports{dir: cfg.OutputDir, encoding: enc}, nil
}

// WriteFailedURLs writes failed as an indented JSON array. Non-ASCII text is
// written as is.
func (r *Reports) WriteFailedURLs(ctx context.Context, failed []webextract.FailedURL) error {
	if failed == nil {
		failed = []webextract.FailedURL{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(failed); err != nil {
		return webextract.Errorf(webextract.EINTERNAL, "encode failed URLs: %v", err)
	}

	return r.write(FailedURLsFile, buf.String())
}

// WriteIndex lists every article folder of the output directory that holds
// a Markdown file, sorted by name.
func (r *Reports) WriteIndex(ctx context.Context) error {
	entries, err := Index(r.dir)
	if err != nil {
		return err
	}
	return r.write(IndexFile, FormatIndex(entries))
}

// IndexEntry is one article in the index.
type IndexEntry struct {
	Folder string
	File   string
}

// Index scans dir for article folders. A folder's entry points at its first
// Markdown file in name order; folders without one are left out.
func Index(dir string) ([]IndexEntry, error) {
	folders, err := os.ReadDir(dir)
	if err != nil {
		return nil, webextract.Errorf(webextract.EWRITE, "read output directory: %v", err)
	}

	var entries []IndexEntry
	for _, f := range folders {
		if !f.IsDir() || strings.HasPrefix(f.Name(), ".") {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, webextract.Errorf(webextract.EWRITE, "read article folder: %v", err)
		}
		for _, file := range files {
			if !file.IsDir() && strings.HasSuffix(file.Name(), ".md") {
				entries = append(entries, IndexEntry{Folder: f.Name(), File: file.Name()})
				break
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Folder < entries[j].Folder
	})
	return entries, nil
}

// FormatIndex renders the README index for entries.
func FormatIndex(entries []IndexEntry) string {
	var b strings.Builder
	b.WriteString("# Extracted Articles\n\n")
	fmt.Fprintf(&b, "Total: %d articles\n\n", len(entries))
	b.WriteString("## Articles\n\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. [%s](./%s/%s)\n", i+1, e.Folder, e.Folder, e.File)
	}
	return b.String()
}

func (r *Reports) write(name, content string) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return webextract.Errorf(webextract.EWRITE, "create output directory: %v", err)
	}
	data, err := encodeString(r.encoding, content)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(r.dir, name), data, 0644); err != nil {
		return webextract.Errorf(webextract.EWRITE, "write %s: %v", name, err)
	}
	return nil
}
