package model

// Stage identifies one step of the import pipeline.
type Stage string

const (
	// StageScrape discovers stickers on a LINE shop page.
	StageScrape Stage = "scrape"

	// StageDownload fetches the original sticker images.
	StageDownload Stage = "download"

	// StageResize rescales images to the Telegram sticker dimensions.
	StageResize Stage = "resize"

	// StageUpload publishes images to the Telegram sticker set.
	StageUpload Stage = "upload"
)

// Sticker is a single sticker discovered on a LINE shop page, enriched with
// local file paths as it moves through the pipeline.
type Sticker struct {
	ID  string
	URL string

	// RawPath is the downloaded original, ResizedPath the 512px rescale.
	// Both are empty until the corresponding stage has run.
	RawPath     Path
	ResizedPath Path
}
