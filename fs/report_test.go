package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReports(t *testing.T) (*fs.Reports, string) {
	t.Helper()
	cfg := webextract.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	r, err := fs.NewReports(cfg)
	require.NoError(t, err)
	return r, cfg.OutputDir
}

func TestReports_WriteFailedURLs(t *testing.T) {
	t.Parallel()

	t.Run("writes indented JSON with unescaped text", func(t *testing.T) {
		t.Parallel()

		r, dir := newReports(t)

		err := r.WriteFailedURLs(context.Background(), []webextract.FailedURL{
			{Title: "文章 & more", URL: "https://x.com/a?b=1&c=2", Error: "HTTP 404 for https://x.com/a"},
		})

		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dir, fs.FailedURLsFile))
		require.NoError(t, err)
		assert.JSONEq(t, `[{"title":"文章 & more","url":"https://x.com/a?b=1&c=2","error":"HTTP 404 for https://x.com/a"}]`, string(data))
		assert.Contains(t, string(data), "文章 & more")
		assert.Contains(t, string(data), "\n  {")
	})

	t.Run("writes an empty array for nil", func(t *testing.T) {
		t.Parallel()

		r, dir := newReports(t)

		require.NoError(t, r.WriteFailedURLs(context.Background(), nil))

		data, err := os.ReadFile(filepath.Join(dir, fs.FailedURLsFile))
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	})
}

func TestReports_WriteIndex(t *testing.T) {
	t.Parallel()

	t.Run("lists article folders in name order", func(t *testing.T) {
		t.Parallel()

		r, dir := newReports(t)
		writeFile(t, filepath.Join(dir, "Beta", "Beta.md"))
		writeFile(t, filepath.Join(dir, "Alpha", "Alpha.md"))
		writeFile(t, filepath.Join(dir, "Alpha", "imgs", "image_1.png"))
		writeFile(t, filepath.Join(dir, "NoMarkdown", "notes.txt"))
		writeFile(t, filepath.Join(dir, ".cache", "x.md"))

		require.NoError(t, r.WriteIndex(context.Background()))

		data, err := os.ReadFile(filepath.Join(dir, fs.IndexFile))
		require.NoError(t, err)
		assert.Equal(t, "# Extracted Articles\n\n"+
			"Total: 2 articles\n\n"+
			"## Articles\n\n"+
			"1. [Alpha](./Alpha/Alpha.md)\n"+
			"2. [Beta](./Beta/Beta.md)\n", string(data))
	})

	t.Run("returns EWRITE for a missing output directory", func(t *testing.T) {
		t.Parallel()

		r, _ := newReports(t)

		err := r.WriteIndex(context.Background())

		require.Error(t, err)
		assert.Equal(t, webextract.EWRITE, webextract.ErrorCode(err))
	})
}

func TestFormatIndex_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "# Extracted Articles\n\nTotal: 0 articles\n\n## Articles\n\n", fs.FormatIndex(nil))
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}
