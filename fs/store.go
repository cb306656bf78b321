// Package fs provides file-based storage for extracted articles.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/webextract"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

// Ensure Store implements webextract.ArticleStore at compile time.
var _ webextract.ArticleStore = (*Store)(nil)

// UntitledName names the directory of an article whose title sanitizes to
// nothing.
const UntitledName = "untitled"

// Store writes each article to <dir>/<name>/<name>.md with its images in
// <dir>/<name>/<images folder>/, where name is the sanitized title.
type Store struct {
	dir          string
	imagesFolder string
	encoding     encoding.Encoding
	frontMatter  bool
	sourceLink   bool

	// Now returns the date written into front matter.
	Now func() time.Time
}

// NewStore creates a Store from the output settings in cfg.
// Returns EINVALID if cfg.FileEncoding is not a known encoding.
func NewStore(cfg webextract.Config) (*Store, error) {
	enc, err := LookupEncoding(cfg.FileEncoding)
	if err != nil {
		return nil, err
	}
	return &Store{
		dir:          cfg.OutputDir,
		imagesFolder: cfg.ImagesFolderName,
		encoding:     enc,
		frontMatter:  cfg.FrontMatter,
		sourceLink:   cfg.SourceLink,
		Now:          time.Now,
	}, nil
}

// LookupEncoding returns the encoding registered under an HTML/WHATWG
// label such as "utf-8", "gbk" or "shift_jis". An empty name means UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		name = "utf-8"
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "unknown file encoding %q", name)
	}
	return enc, nil
}

// ArticleName returns the directory and file stem used for title.
func ArticleName(title string) string {
	name := webextract.SanitizeFilename(title)
	if name == "" {
		return UntitledName
	}
	return name
}

// SaveImage writes data as filename in the article's images folder.
func (s *Store) SaveImage(ctx context.Context, article string, filename string, data []byte) error {
	if filename == "" || filename != filepath.Base(filename) {
		return webextract.Errorf(webextract.EINVALID, "invalid image filename %q", filename)
	}

	dir := filepath.Join(s.dir, ArticleName(article), s.imagesFolder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return webextract.Errorf(webextract.EWRITE, "create images folder: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return webextract.Errorf(webextract.EWRITE, "write image %s: %v", filename, err)
	}
	return nil
}

// SaveArticle writes the article's Markdown and sets a.Path.
func (s *Store) SaveArticle(ctx context.Context, a *webextract.Article) error {
	name := ArticleName(a.Title)
	dir := filepath.Join(s.dir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return webextract.Errorf(webextract.EWRITE, "create article folder: %v", err)
	}

	content, err := FormatArticle(a, s.frontMatter, s.sourceLink, s.Now())
	if err != nil {
		return err
	}
	data, err := encodeString(s.encoding, content)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, name+".md")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return webextract.Errorf(webextract.EWRITE, "write article %s: %v", path, err)
	}
	a.Path = path
	return nil
}

// frontMatter is the YAML header written when front matter is enabled.
type frontMatter struct {
	Source  string `yaml:"source"`
	Title   string `yaml:"title"`
	Crawled string `yaml:"crawled"`
}

// FormatArticle renders the file contents for a. Without front matter or
// source link the result is exactly a.Markdown.
func FormatArticle(a *webextract.Article, withFrontMatter, withSourceLink bool, now time.Time) (string, error) {
	body := a.Markdown
	if withSourceLink && a.URL != "" {
		body = addSourceLink(body, a.Title, a.URL)
	}
	if !withFrontMatter {
		return body, nil
	}

	header, err := yaml.Marshal(frontMatter{
		Source:  a.URL,
		Title:   a.Title,
		Crawled: now.Format("2006-01-02"),
	})
	if err != nil {
		return "", webextract.Errorf(webextract.EINTERNAL, "encode front matter: %v", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}

// addSourceLink places a source quote under the leading H1, adding an H1
// from title when the Markdown does not start with one.
func addSourceLink(md, title, url string) string {
	link := "> Source: [" + url + "](" + url + ")"
	if first, rest, _ := strings.Cut(md, "\n"); strings.HasPrefix(first, "# ") {
		rest = strings.TrimLeft(rest, "\n")
		if rest == "" {
			return first + "\n\n" + link
		}
		return first + "\n\n" + link + "\n\n" + rest
	}
	if md == "" {
		return "# " + title + "\n\n" + link
	}
	return "# " + title + "\n\n" + link + "\n\n" + md
}

// encodeString encodes s, substituting characters enc cannot represent.
func encodeString(enc encoding.Encoding, s string) ([]byte, error) {
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, webextract.Errorf(webextract.EWRITE, "encode output: %v", err)
	}
	return out, nil
}
