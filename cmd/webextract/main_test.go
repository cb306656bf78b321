package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/webextract/cmd/webextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><head><title>Site</title></head><body>
<nav>menu</nav>
<main><h1>Title</h1><p>Hello <b>world</b></p><img src="/a.png"></main>
<footer>footer</footer>
</body></html>`

// newSite serves one article at /post and one image at /a.png.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/post", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	})
	mux.HandleFunc("/a.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeArticles(t *testing.T, dir, json string) string {
	t.Helper()
	path := filepath.Join(dir, "articles.json")
	require.NoError(t, os.WriteFile(path, []byte(json), 0644))
	return path
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, stderr)

	require.NoError(t, err)
	help := stdout.String()
	for _, cmd := range []string{"run", "preview", "history", "presets"} {
		assert.Contains(t, help, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, help, "Usage:")
}

func TestMain_Run_NoArguments(t *testing.T) {
	t.Parallel()

	err := main.NewMain().Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_Extract(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	articles := writeArticles(t, dir, `[{"title": "Post", "url": "`+srv.URL+`/post"}]`)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{
		"run", articles, "-o", out, "--delay", "0s", "--quiet",
	}, stdout, stderr)

	require.NoError(t, err, stderr.String())
	md, err := os.ReadFile(filepath.Join(out, "Post", "Post.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nHello **world**\n\n![](imgs/image_1.png)", string(md))

	img, err := os.ReadFile(filepath.Join(out, "Post", "imgs", "image_1.png"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG\r\n\x1a\nfake", string(img))

	index, err := os.ReadFile(filepath.Join(out, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "1. [Post](./Post/Post.md)")

	assert.NoFileExists(t, filepath.Join(out, "failed_urls.json"))
	assert.FileExists(t, filepath.Join(out, main.DefaultDBName))
	assert.Contains(t, stdout.String(), "[1/1] ok    Post (1 images)")
	assert.Contains(t, stdout.String(), "Done: 1 succeeded, 0 failed")

	// The run is listed in history.
	stdout.Reset()
	err = main.NewMain().Run(context.Background(), []string{
		"history", "--db", filepath.Join(out, main.DefaultDBName),
	}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "1 articles  1 ok, 0 failed")

	// Resuming skips the extracted article.
	stdout.Reset()
	err = main.NewMain().Run(context.Background(), []string{
		"run", articles, "-o", out, "--delay", "0s", "--quiet", "--resume",
	}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Done: 0 succeeded, 0 failed, 1 skipped")
}

func TestMain_Run_ExtractWithFailure(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	articles := writeArticles(t, dir, `[
		{"title": "Missing", "url": "`+srv.URL+`/missing"},
		{"title": "Post", "url": "`+srv.URL+`/post"}
	]`)
	stdout := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{
		"run", articles, "-o", out, "--delay", "0s", "--quiet", "--no-history", "--no-images",
	}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Done: 1 succeeded, 1 failed")
	assert.FileExists(t, filepath.Join(out, "failed_urls.json"))
	assert.NoFileExists(t, filepath.Join(out, main.DefaultDBName))

	md, err := os.ReadFile(filepath.Join(out, "Post", "Post.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "![]("+srv.URL+"/a.png)")
}

func TestMain_Run_Preview(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{
		"preview", srv.URL + "/post", "--no-bold",
	}, stdout, stderr)

	require.NoError(t, err, stderr.String())
	assert.Equal(t, "# Title\n\nHello world\n\n![]("+srv.URL+"/a.png)\n", stdout.String())
}

func TestMain_Run_InvalidConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	articles := writeArticles(t, dir, `[{"title": "Post", "url": "https://x.com"}]`)

	err := main.NewMain().Run(context.Background(), []string{
		"run", articles, "--preset", "nope",
	}, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
}
