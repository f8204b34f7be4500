// Package controller provides the user-facing output for the import pipeline.
package controller

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "lstt/internal/model"
)

// UI defines the interface for displaying pipeline progress and results.
// Implementations can use different output methods (plain text, TUI).
type UI interface {
	// Start announces a run over the given stickers.
	Start(ctx context.Context, stickers []m.Sticker) error

	// StageStarted announces that a pipeline stage begins.
	StageStarted(ctx context.Context, stage m.Stage)

	// StickerFinished reports the outcome of one sticker at one stage. It
	// is called concurrently by the download and resize workers.
	StickerFinished(ctx context.Context, stage m.Stage, sticker m.Sticker, err error)

	// Close finalizes the progress display.
	Close(ctx context.Context)

	// DisplayStickers prints the stickers discovered on a shop page.
	DisplayStickers(ctx context.Context, stickers []m.Sticker) error

	// DisplaySummary prints the outcome table of a run report.
	DisplaySummary(ctx context.Context, report *m.Report) error
}

// NewUI selects the interactive progress display when the terminal allows
// it, falling back to plain line output otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewPlainUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func stageEmoji(stage m.Stage) string {
	switch stage {
	case m.StageScrape:
		return "🔍"
	case m.StageDownload:
		return "🔽"
	case m.StageResize:
		return "📐"
	case m.StageUpload:
		return "🔼"
	default:
		return ""
	}
}

// stageBanner is the announcement line printed when a stage begins.
func stageBanner(stage m.Stage) string {
	switch stage {
	case m.StageScrape:
		return "🔍 Scraping..."
	case m.StageDownload:
		return "🔽 Downloading..."
	case m.StageResize:
		return "📐 Resizing..."
	case m.StageUpload:
		return "🔼 Uploading..."
	default:
		return ""
	}
}

// stageDone is the past-tense verb for a sticker that cleared a stage.
func stageDone(stage m.Stage) string {
	switch stage {
	case m.StageScrape:
		return "scraped"
	case m.StageDownload:
		return "downloaded"
	case m.StageResize:
		return "resized"
	case m.StageUpload:
		return "uploaded"
	default:
		return ""
	}
}

// stageVerb is the verb used in failure lines.
func stageVerb(stage m.Stage) string {
	switch stage {
	case m.StageScrape:
		return "scrape"
	case m.StageDownload:
		return "download"
	case m.StageResize:
		return "resize"
	case m.StageUpload:
		return "upload"
	default:
		return ""
	}
}

func renderStickersTable(stickers []m.Sticker) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "URL"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, sticker := range stickers {
		table.Append([]string{sticker.ID, sticker.URL})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(stickers))})
	table.Render()

	return tableBuffer.String()
}

func renderSummaryTable(report *m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Sticker", "Status", "Stage", "Note"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	for _, row := range report.Rows {
		table.Append([]string{row.StickerID, string(row.Status), string(row.Stage), row.Note})
	}

	table.SetFooter([]string{
		"Total", fmt.Sprintf("%d", len(report.Rows)),
		"Uploaded", fmt.Sprintf("%d", report.Uploaded),
	})
	table.Render()

	return tableBuffer.String()
}
