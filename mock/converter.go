package mock

import (
	"context"

	"github.com/fwojciec/webextract"
)

var _ webextract.ContentSelector = (*ContentSelector)(nil)

// ContentSelector is a mock implementation of webextract.ContentSelector.
type ContentSelector struct {
	SelectFn func(html string) (*webextract.Content, error)
}

func (s *ContentSelector) Select(html string) (*webextract.Content, error) {
	return s.SelectFn(html)
}

var _ webextract.Converter = (*Converter)(nil)

// Converter is a mock implementation of webextract.Converter.
type Converter struct {
	ConvertFn func(html string, baseURL string) (*webextract.Draft, error)
}

func (c *Converter) Convert(html string, baseURL string) (*webextract.Draft, error) {
	return c.ConvertFn(html, baseURL)
}

var _ webextract.ImageHarvester = (*ImageHarvester)(nil)

// ImageHarvester is a mock implementation of webextract.ImageHarvester.
type ImageHarvester struct {
	HarvestFn func(ctx context.Context, article string, baseURL string, draft *webextract.Draft) *webextract.HarvestResult
}

func (h *ImageHarvester) Harvest(ctx context.Context, article string, baseURL string, draft *webextract.Draft) *webextract.HarvestResult {
	return h.HarvestFn(ctx, article, baseURL, draft)
}
