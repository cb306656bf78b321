package webextract

import "context"

// ImageOutcome is the closed set of results for one distinct image:
// Downloaded, Skipped, Failed, or Remote.
type ImageOutcome interface {
	imageOutcome()
}

// Downloaded means the image was saved; Path is relative to the article file.
type Downloaded struct {
	Path string
}

// Skipped means a skip keyword matched; the reference is removed.
type Skipped struct {
	Keyword string
}

// Failed means the download or the local write failed.
type Failed struct {
	URL string
	Err error
}

// Remote means downloading is disabled; the reference points at URL.
type Remote struct {
	URL string
}

func (Downloaded) imageOutcome() {}
func (Skipped) imageOutcome()    {}
func (Failed) imageOutcome()     {}
func (Remote) imageOutcome()     {}

// Image records what happened to one distinct resolved image URL.
type Image struct {
	// URL is the resolved absolute URL used for deduplication.
	URL string
	// Filename is assigned to every image a download was attempted for,
	// including failed ones, so numbering stays stable.
	Filename string
	Size     int
	// Hash is the xxHash of the image bytes, hex encoded.
	Hash    string
	Outcome ImageOutcome
}

// HarvestResult is the rewritten Markdown plus one Image per distinct URL
// in first-appearance order.
type HarvestResult struct {
	Markdown string
	Images   []Image
}

// ImageHarvester downloads the images referenced by a Draft and rewrites
// their placeholders. Per-image failures are recorded on the result and
// never returned as errors.
type ImageHarvester interface {
	Harvest(ctx context.Context, article string, baseURL string, draft *Draft) *HarvestResult
}

// ImageSink stores downloaded image bytes for an article.
type ImageSink interface {
	// SaveImage writes data as filename inside the article's images folder.
	// Returns EWRITE on filesystem failure.
	SaveImage(ctx context.Context, article string, filename string, data []byte) error
}
