// Package harvest downloads the images referenced by converted Markdown and
// rewrites their placeholders to local paths.
package harvest

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/webextract"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultExtension is used when neither the URL, the Content-Type, nor the
// bytes reveal an image format.
const DefaultExtension = ".png"

// Ensure Harvester implements webextract.ImageHarvester at compile time.
var _ webextract.ImageHarvester = (*Harvester)(nil)

// Harvester resolves, deduplicates, filters, and downloads images.
type Harvester struct {
	downloader webextract.Downloader
	sink       webextract.ImageSink
	limiter    *HostLimiter

	download     bool
	folder       string
	skipKeywords []string
	policy       webextract.FailedImagePolicy
}

// NewHarvester creates a Harvester configured from cfg. Downloads to the
// same host are spaced by cfg.ImageDelay.
func NewHarvester(downloader webextract.Downloader, sink webextract.ImageSink, cfg webextract.Config) *Harvester {
	keywords := make([]string, 0, len(cfg.ImageSkipKeywords))
	for _, k := range cfg.ImageSkipKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Harvester{
		downloader:   downloader,
		sink:         sink,
		limiter:      NewHostLimiter(cfg.ImageDelay),
		download:     cfg.DownloadImages,
		folder:       cfg.ImagesFolderName,
		skipKeywords: keywords,
		policy:       cfg.FailedImagePolicy,
	}
}

// Harvest replaces every placeholder in draft. Images are numbered in order
// of first appearance among distinct, non-skipped resolved URLs; repeated
// URLs share one download and one file.
func (h *Harvester) Harvest(ctx context.Context, article string, baseURL string, draft *webextract.Draft) *webextract.HarvestResult {
	md := draft.Markdown
	var images []webextract.Image
	seen := make(map[string]int)
	next := 0

	for _, ref := range draft.Images {
		resolved, err := webextract.ResolveURL(baseURL, ref.Src)
		if err != nil {
			resolved = ref.Src
		}

		i, ok := seen[resolved]
		if !ok {
			img := webextract.Image{URL: resolved}
			switch kw, skip := h.skipKeyword(resolved); {
			case skip:
				img.Outcome = webextract.Skipped{Keyword: kw}
			case !h.download:
				img.Outcome = webextract.Remote{URL: resolved}
			default:
				next++
				h.fetch(ctx, article, next, &img)
			}
			images = append(images, img)
			i = len(images) - 1
			seen[resolved] = i
		}

		md = replacePlaceholder(md, ref.Placeholder, h.render(ref.Alt, images[i]))
	}

	return &webextract.HarvestResult{Markdown: md, Images: images}
}

func (h *Harvester) fetch(ctx context.Context, article string, n int, img *webextract.Image) {
	base := "image_" + strconv.Itoa(n)
	img.Filename = base + urlExtension(img.URL, DefaultExtension)

	if err := h.limiter.Wait(ctx, host(img.URL)); err != nil {
		img.Outcome = webextract.Failed{URL: img.URL, Err: err}
		return
	}

	res, err := h.downloader.Download(ctx, img.URL)
	if err != nil {
		img.Outcome = webextract.Failed{URL: img.URL, Err: err}
		return
	}

	img.Filename = base + Extension(img.URL, res.ContentType, res.Data)
	img.Size = len(res.Data)
	img.Hash = fmt.Sprintf("%016x", xxhash.Sum64(res.Data))

	if err := h.sink.SaveImage(ctx, article, img.Filename, res.Data); err != nil {
		if webextract.ErrorCode(err) == webextract.EINTERNAL {
			err = webextract.Errorf(webextract.EWRITE, "save image %s: %v", img.Filename, err)
		}
		img.Outcome = webextract.Failed{URL: img.URL, Err: err}
		return
	}

	img.Outcome = webextract.Downloaded{Path: h.folder + "/" + img.Filename}
}

// render returns the Markdown that replaces one placeholder.
func (h *Harvester) render(alt string, img webextract.Image) string {
	switch o := img.Outcome.(type) {
	case webextract.Downloaded:
		return webextract.ImageMarkdown(alt, o.Path)
	case webextract.Remote:
		return webextract.ImageMarkdown(alt, o.URL)
	case webextract.Failed:
		if h.policy == webextract.DropImage {
			return ""
		}
		return webextract.ImageMarkdown(alt, o.URL)
	}
	return ""
}

// replacePlaceholder substitutes the first occurrence of placeholder in md.
// An empty replacement also removes a link whose only text was the
// placeholder, and the block separator the removed reference stood in.
func replacePlaceholder(md, placeholder, repl string) string {
	i := strings.Index(md, placeholder)
	if i < 0 {
		return md
	}
	before, after := md[:i], md[i+len(placeholder):]
	if repl != "" {
		return before + repl + after
	}

	if strings.HasSuffix(before, "[") && strings.HasPrefix(after, "](") {
		if end := linkEnd(after[2:]); end >= 0 {
			before, after = before[:len(before)-1], after[2+end+1:]
		}
	}

	switch {
	case before == "":
		after = strings.TrimLeft(after, "\n")
	case after == "":
		before = strings.TrimRight(before, "\n")
	case strings.HasSuffix(before, "\n\n") && strings.HasPrefix(after, "\n\n"):
		after = after[2:]
	case strings.HasSuffix(before, " ") && strings.HasPrefix(after, " "):
		after = after[1:]
	}
	return before + after
}

// linkEnd returns the index of the parenthesis closing a link target that
// starts at s[0], or -1 when the target is unterminated on its line.
func linkEnd(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return i
			}
			depth--
		case '\n':
			return -1
		}
	}
	return -1
}

// skipKeyword reports the first configured keyword contained in the URL,
// compared case-insensitively.
func (h *Harvester) skipKeyword(u string) (string, bool) {
	lower := strings.ToLower(u)
	for _, k := range h.skipKeywords {
		if strings.Contains(lower, k) {
			return k, true
		}
	}
	return "", false
}

// Extension picks a file extension for an image: the URL path extension
// when it looks like one, then the Content-Type, then the sniffed bytes,
// then DefaultExtension.
func Extension(rawURL, contentType string, data []byte) string {
	if ext := urlExtension(rawURL, ""); ext != "" {
		return ext
	}
	if strings.HasPrefix(contentType, "image/") {
		if m := mimetype.Lookup(contentType); m != nil && m.Extension() != "" {
			return m.Extension()
		}
	}
	if len(data) > 0 {
		if m := mimetype.Detect(data); strings.HasPrefix(m.String(), "image/") && m.Extension() != "" {
			return m.Extension()
		}
	}
	return DefaultExtension
}

// urlExtension returns the lowercased extension of the URL path when it is
// one to five alphanumeric characters, and fallback otherwise.
func urlExtension(rawURL, fallback string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" || len(ext) > 5 {
		return fallback
	}
	for _, r := range ext {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return fallback
		}
	}
	return "." + strings.ToLower(ext)
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
