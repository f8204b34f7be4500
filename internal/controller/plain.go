package controller

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lstt/internal/adapter"
	m "lstt/internal/model"
)

var failureColor = color.New(color.FgRed)

// PlainUI implements UI with one line per event using cobra Command's output.
type PlainUI struct {
	cmd *cobra.Command
	mu  sync.Mutex
}

// NewPlainUI creates a new PlainUI.
func NewPlainUI(cmd *cobra.Command) *PlainUI {
	return &PlainUI{cmd: cmd}
}

// Start prints how many stickers the run covers.
func (p *PlainUI) Start(ctx context.Context, stickers []m.Sticker) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.printf("🔍 found %d stickers\n", len(stickers))

	return nil
}

// StageStarted prints the stage banner.
func (p *PlainUI) StageStarted(ctx context.Context, stage m.Stage) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.printf("%s\n", stageBanner(stage))
}

// StickerFinished prints one line per sticker and stage; failures are red.
func (p *PlainUI) StickerFinished(ctx context.Context, stage m.Stage, sticker m.Sticker, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return
	}

	if err != nil {
		p.printf("%s ❌ %s\n", stageEmoji(stage),
			failureColor.Sprintf("couldn't %s %s: %v", stageVerb(stage), sticker.ID, err))

		return
	}

	p.printf("%s %s %s\n", stageEmoji(stage), stageDone(stage), sticker.ID)
}

// Close finalizes the UI (no-op for PlainUI).
func (p *PlainUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayStickers prints the scraped stickers as a table.
func (p *PlainUI) DisplayStickers(ctx context.Context, stickers []m.Sticker) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.printf("🔍 found %d stickers\n", len(stickers))
	p.printf("\n%s", renderStickersTable(stickers))

	return nil
}

// DisplaySummary prints the outcome table and where the report was saved.
func (p *PlainUI) DisplaySummary(ctx context.Context, report *m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.printf("\n%s", renderSummaryTable(report))
	p.printf("\nreport: %s\n", filepath.Join(string(report.DownloadDir), adapter.ReportFileName))

	return nil
}

func (p *PlainUI) printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = fmt.Fprintf(p.cmd.OutOrStdout(), format, args...)
}
