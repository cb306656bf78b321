package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/mock"
	wxslog "github.com/fwojciec/webextract/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingArticleStore_SaveArticle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.ArticleStore{
		SaveArticleFn: func(ctx context.Context, a *webextract.Article) error {
			a.Path = "out/Post/Post.md"
			return nil
		},
	}

	a := &webextract.Article{Title: "Post"}
	err := wxslog.NewLoggingArticleStore(inner, logger).SaveArticle(context.Background(), a)

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "save article")
	assert.Contains(t, output, "title=Post")
	assert.Contains(t, output, "path=out/Post/Post.md")
}

func TestLoggingArticleStore_SaveImage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.ArticleStore{
		SaveImageFn: func(ctx context.Context, article string, filename string, data []byte) error {
			return errors.New("disk full")
		},
	}

	err := wxslog.NewLoggingArticleStore(inner, logger).SaveImage(context.Background(), "Post", "image_1.png", []byte("abc"))

	require.Error(t, err)
	output := buf.String()
	assert.Contains(t, output, "save image")
	assert.Contains(t, output, "file=image_1.png")
	assert.Contains(t, output, "bytes=3")
	assert.Contains(t, output, "err=\"disk full\"")
}
