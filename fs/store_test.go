package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, mutate func(*webextract.Config)) (*fs.Store, string) {
	t.Helper()
	cfg := webextract.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := fs.NewStore(cfg)
	require.NoError(t, err)
	s.Now = func() time.Time { return time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) }
	return s, cfg.OutputDir
}

func TestStore_SaveArticle(t *testing.T) {
	t.Parallel()

	t.Run("writes markdown into a folder named after the title", func(t *testing.T) {
		t.Parallel()

		s, dir := newStore(t, nil)
		a := &webextract.Article{
			Title:    "Go: Channels?",
			URL:      "https://x.com/p",
			Markdown: "# Title\n\nHello **world**\n\n![](imgs/image_1.png)",
		}

		err := s.SaveArticle(context.Background(), a)

		require.NoError(t, err)
		want := filepath.Join(dir, "Go_ Channels_", "Go_ Channels_.md")
		assert.Equal(t, want, a.Path)
		data, err := os.ReadFile(want)
		require.NoError(t, err)
		assert.Equal(t, a.Markdown, string(data))
	})

	t.Run("uses a fallback name for empty titles", func(t *testing.T) {
		t.Parallel()

		s, dir := newStore(t, nil)
		a := &webextract.Article{Title: "...", Markdown: "text"}

		require.NoError(t, s.SaveArticle(context.Background(), a))

		assert.Equal(t, filepath.Join(dir, fs.UntitledName, fs.UntitledName+".md"), a.Path)
	})

	t.Run("encodes output in the configured encoding", func(t *testing.T) {
		t.Parallel()

		s, _ := newStore(t, func(c *webextract.Config) { c.FileEncoding = "gbk" })
		a := &webextract.Article{Title: "T", Markdown: "你好"}

		require.NoError(t, s.SaveArticle(context.Background(), a))

		data, err := os.ReadFile(a.Path)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xC4, 0xE3, 0xBA, 0xC3}, data)
	})

	t.Run("adds front matter when enabled", func(t *testing.T) {
		t.Parallel()

		s, _ := newStore(t, func(c *webextract.Config) { c.FrontMatter = true })
		a := &webextract.Article{Title: "T", URL: "https://x.com/p", Markdown: "body"}

		require.NoError(t, s.SaveArticle(context.Background(), a))

		data, err := os.ReadFile(a.Path)
		require.NoError(t, err)
		assert.Equal(t, "---\nsource: https://x.com/p\ntitle: T\ncrawled: \"2026-03-04\"\n---\n\nbody", string(data))
	})
}

func TestNewStore_UnknownEncoding(t *testing.T) {
	t.Parallel()

	cfg := webextract.DefaultConfig()
	cfg.FileEncoding = "klingon-8"

	_, err := fs.NewStore(cfg)

	require.Error(t, err)
	assert.Equal(t, webextract.EINVALID, webextract.ErrorCode(err))
}

func TestStore_SaveImage(t *testing.T) {
	t.Parallel()

	t.Run("writes into the article images folder", func(t *testing.T) {
		t.Parallel()

		s, dir := newStore(t, nil)

		err := s.SaveImage(context.Background(), "My/Post", "image_1.png", []byte("png"))

		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dir, "My_Post", "imgs", "image_1.png"))
		require.NoError(t, err)
		assert.Equal(t, "png", string(data))
	})

	t.Run("rejects filenames with path separators", func(t *testing.T) {
		t.Parallel()

		s, _ := newStore(t, nil)

		err := s.SaveImage(context.Background(), "Post", "../escape.png", []byte("png"))

		require.Error(t, err)
		assert.Equal(t, webextract.EINVALID, webextract.ErrorCode(err))
	})

	t.Run("returns EWRITE when the folder cannot be created", func(t *testing.T) {
		t.Parallel()

		s, dir := newStore(t, nil)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Post"), []byte("file in the way"), 0644))

		err := s.SaveImage(context.Background(), "Post", "image_1.png", []byte("png"))

		require.Error(t, err)
		assert.Equal(t, webextract.EWRITE, webextract.ErrorCode(err))
	})
}

func TestFormatArticle(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		article     webextract.Article
		frontMatter bool
		sourceLink  bool
		want        string
	}{
		{
			name:    "markdown unchanged by default",
			article: webextract.Article{Title: "T", URL: "https://x.com", Markdown: "# T\n\nbody"},
			want:    "# T\n\nbody",
		},
		{
			name:       "source link under leading heading",
			article:    webextract.Article{Title: "T", URL: "https://x.com/p", Markdown: "# T\n\nbody"},
			sourceLink: true,
			want:       "# T\n\n> Source: [https://x.com/p](https://x.com/p)\n\nbody",
		},
		{
			name:       "source link adds heading when missing",
			article:    webextract.Article{Title: "T", URL: "https://x.com/p", Markdown: "body"},
			sourceLink: true,
			want:       "# T\n\n> Source: [https://x.com/p](https://x.com/p)\n\nbody",
		},
		{
			name:        "front matter quotes titles that need it",
			article:     webextract.Article{Title: "Go: tips", URL: "https://x.com/p", Markdown: "body"},
			frontMatter: true,
			want:        "---\nsource: https://x.com/p\ntitle: 'Go: tips'\ncrawled: \"2026-01-02\"\n---\n\nbody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.FormatArticle(&tt.article, tt.frontMatter, tt.sourceLink, now)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
