package model

import "time"

// StickerStatus represents the final outcome for one sticker of a run.
type StickerStatus string

const (
	// StatusUploaded indicates the sticker made it into the Telegram set.
	StatusUploaded StickerStatus = "uploaded"
	// StatusFailed indicates a stage failed for this sticker.
	StatusFailed StickerStatus = "failed"
	// StatusSkipped indicates the sticker was never attempted because the
	// run aborted before reaching it.
	StatusSkipped StickerStatus = "skipped"
)

// ReportRow records the outcome for a single sticker.
type ReportRow struct {
	StickerID string        `yaml:"sticker_id"`
	Status    StickerStatus `yaml:"status"`
	Stage     Stage         `yaml:"stage,omitempty"` // stage that failed, empty on success
	Note      string        `yaml:"note,omitempty"`  // failure detail
}

// Report represents the result of one import run. It is persisted next to
// the downloaded images so a run can be inspected after the fact.
type Report struct {
	PageURL     string      `yaml:"page_url"`
	SetName     string      `yaml:"set_name"`
	SetTitle    string      `yaml:"set_title"`
	StartedAt   time.Time   `yaml:"started_at"`
	FinishedAt  time.Time   `yaml:"finished_at"`
	Found       int         `yaml:"found"`
	Downloaded  int         `yaml:"downloaded"`
	Resized     int         `yaml:"resized"`
	Uploaded    int         `yaml:"uploaded"`
	Failed      int         `yaml:"failed"`
	Skipped     int         `yaml:"skipped"`
	Rows        []ReportRow `yaml:"rows"`
	DownloadDir Path        `yaml:"download_dir"`
}

// FailedRows returns the rows whose sticker did not get uploaded.
func (r *Report) FailedRows() []ReportRow {
	var rows []ReportRow

	for _, row := range r.Rows {
		if row.Status != StatusUploaded {
			rows = append(rows, row)
		}
	}

	return rows
}
