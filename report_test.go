package webextract_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/webextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchReport_Add(t *testing.T) {
	t.Parallel()

	var report webextract.BatchReport
	report.Add(&webextract.Article{Title: "A", URL: "https://x.com/a", Success: true})
	report.Add(&webextract.Article{
		Title: "B",
		URL:   "https://x.com/b",
		Err:   webextract.Errorf(webextract.EFETCH, "HTTP 404 for https://x.com/b"),
	})
	report.Add(&webextract.Article{Title: "C", URL: "https://x.com/c", Err: errors.New("boom")})

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 2, report.FailCount)
	assert.Equal(t, 3, report.Total())
	require.Len(t, report.Failed, 2)
	assert.Equal(t, webextract.FailedURL{Title: "B", URL: "https://x.com/b", Error: "HTTP 404 for https://x.com/b"}, report.Failed[0])
	assert.Equal(t, "Internal error.", report.Failed[1].Error)
	assert.Len(t, report.Articles, 3)
}

func TestArticle_Downloaded(t *testing.T) {
	t.Parallel()

	a := &webextract.Article{
		Images: []webextract.Image{
			{URL: "https://x.com/a.png", Filename: "image_1.png", Outcome: webextract.Downloaded{Path: "imgs/image_1.png"}},
			{URL: "https://x.com/icon.png", Outcome: webextract.Skipped{Keyword: "icon"}},
			{URL: "https://x.com/b.png", Filename: "image_2.png", Outcome: webextract.Failed{URL: "https://x.com/b.png"}},
			{URL: "https://x.com/c.png", Filename: "image_3.png", Outcome: webextract.Downloaded{Path: "imgs/image_3.png"}},
		},
	}

	got := a.Downloaded()

	require.Len(t, got, 2)
	assert.Equal(t, "image_1.png", got[0].Filename)
	assert.Equal(t, "image_3.png", got[1].Filename)
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	p := webextract.Placeholder(3)

	assert.True(t, webextract.HasPlaceholders("before "+p+" after"))
	assert.False(t, webextract.HasPlaceholders("plain text"))
	assert.NotEqual(t, webextract.Placeholder(1), webextract.Placeholder(10))
	assert.Equal(t, "![alt](imgs/image_1.png)", webextract.ImageMarkdown("alt", "imgs/image_1.png"))
}
