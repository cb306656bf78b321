package webextract

import "context"

// ArticleRequest describes one article to extract.
type ArticleRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Stage identifies a step of the article pipeline.
type Stage string

// Pipeline stages, in order. StageErrored is reachable from any stage.
const (
	StageFetching         Stage = "fetching"
	StageSelecting        Stage = "selecting"
	StageConverting       Stage = "converting"
	StageHarvestingImages Stage = "harvesting_images"
	StageWriting          Stage = "writing"
	StageDone             Stage = "done"
	StageErrored          Stage = "errored"
)

// Article is the outcome of extracting one ArticleRequest.
type Article struct {
	Title    string
	URL      string
	Markdown string
	Images   []Image

	// Path is the written Markdown file, empty until the article is written.
	Path string

	Success bool
	Err     error
	// Stage is StageDone on success, otherwise the stage that failed.
	Stage Stage
}

// Downloaded returns the images that were saved locally, in order.
func (a *Article) Downloaded() []Image {
	var images []Image
	for _, img := range a.Images {
		if _, ok := img.Outcome.(Downloaded); ok {
			images = append(images, img)
		}
	}
	return images
}

// ArticleProcessor runs the full extraction for one article. It never
// returns an error: failures are reported on the returned Article.
type ArticleProcessor interface {
	Process(ctx context.Context, req ArticleRequest, position int) *Article
}
