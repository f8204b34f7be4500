// Package domain contains the sticker import pipeline and the script check tasks.
package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"lstt/internal/adapter"
	"lstt/internal/controller"
	m "lstt/internal/model"
)

// stickerEmojis is the palette a sticker's emoji is drawn from.
var stickerEmojis = []string{"🔴", "🟠", "🟡", "🟢", "🔵", "🟣"}

// PublisherFactory builds the Telegram publisher for a run. It is called
// once per import so credential problems surface before any network work.
type PublisherFactory func() (adapter.StickerPublisher, error)

// ImportArgs contains the arguments for a full import run.
type ImportArgs struct {
	PageURL     string
	SetName     string
	SetTitle    string
	DownloadDir m.Path
	Parallel    int
	Limit       int
}

// Importer drives the scrape → download → resize → upload pipeline.
type Importer interface {
	// Scrape lists the stickers on a shop page without downloading anything.
	Scrape(ctx context.Context, pageURL string) error

	// Import copies a LINE sticker set into a new Telegram sticker set and
	// persists a run report into the download directory.
	Import(ctx context.Context, args ImportArgs) error

	// Report redisplays the report persisted by the last import into dir.
	Report(ctx context.Context, dir m.Path) error
}

// pipelineItem tracks one sticker through the stages. Each download/resize
// worker touches only its own item, so no locking is needed.
type pipelineItem struct {
	m.Sticker

	failedAt m.Stage
	err      error
	uploaded bool
}

func (p *pipelineItem) fail(stage m.Stage, err error) {
	p.failedAt = stage
	p.err = err
}

type importer struct {
	scraper    adapter.ShopScraper
	downloader adapter.Downloader
	resizer    adapter.Resizer
	publish    PublisherFactory
	store      adapter.ReportStore
	ui         controller.UI
	pickEmoji  func() string
}

// NewImporter constructs an Importer backed by the provided adapters.
func NewImporter(
	scraper adapter.ShopScraper,
	downloader adapter.Downloader,
	resizer adapter.Resizer,
	publish PublisherFactory,
	store adapter.ReportStore,
	ui controller.UI,
) Importer {
	return &importer{
		scraper:    scraper,
		downloader: downloader,
		resizer:    resizer,
		publish:    publish,
		store:      store,
		ui:         ui,
		pickEmoji:  randomEmoji,
	}
}

func (i *importer) Scrape(ctx context.Context, pageURL string) error {
	stickers, err := i.scraper.Stickers(ctx, pageURL)
	if err != nil {
		slog.Error("Failed to scrape sticker page", "page", pageURL, "error", err)
		return fmt.Errorf("scrape %s: %w", pageURL, err)
	}

	return i.ui.DisplayStickers(ctx, stickers)
}

func (i *importer) Import(ctx context.Context, args ImportArgs) error {
	publisher, err := i.publish()
	if err != nil {
		return err
	}

	if err := adapter.ValidateSetName(args.SetName); err != nil {
		return err
	}

	if err := adapter.ValidateSetTitle(args.SetTitle); err != nil {
		return err
	}

	startedAt := time.Now()

	stickers, err := i.scraper.Stickers(ctx, args.PageURL)
	if err != nil {
		slog.Error("Failed to scrape sticker page", "page", args.PageURL, "error", err)
		return fmt.Errorf("scrape %s: %w", args.PageURL, err)
	}

	found := len(stickers)
	if args.Limit > 0 && len(stickers) > args.Limit {
		stickers = stickers[:args.Limit]
	}

	if err := os.MkdirAll(string(args.DownloadDir), 0o755); err != nil {
		slog.Error("Failed to create download directory", "dir", args.DownloadDir, "error", err)
		return fmt.Errorf("create download directory: %w", err)
	}

	if err := i.ui.Start(ctx, stickers); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	items := make([]*pipelineItem, len(stickers))
	for idx, sticker := range stickers {
		items[idx] = &pipelineItem{Sticker: sticker}
	}

	i.download(ctx, items, args.DownloadDir, args.Parallel)
	i.resize(ctx, items, args.DownloadDir, args.Parallel)
	runErr := i.upload(ctx, publisher, items, args)

	i.ui.Close(ctx)

	report := i.buildReport(args, found, startedAt, items)

	// The report is saved even when the run aborted so the partial outcome
	// can be inspected with the report command.
	if err := i.store.Save(args.DownloadDir, report); err != nil {
		slog.Error("Failed to save run report", "dir", args.DownloadDir, "error", err)

		if runErr == nil {
			runErr = fmt.Errorf("save report: %w", err)
		}
	}

	if err := i.ui.DisplaySummary(ctx, report); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}

	if report.Uploaded == 0 {
		return fmt.Errorf("no stickers were uploaded to %s", args.SetName)
	}

	return nil
}

func (i *importer) Report(ctx context.Context, dir m.Path) error {
	report, err := i.store.Load(dir)
	if err != nil {
		slog.Error("Failed to load run report", "dir", dir, "error", err)
		return fmt.Errorf("load report: %w", err)
	}

	return i.ui.DisplaySummary(ctx, report)
}

func (i *importer) download(ctx context.Context, items []*pipelineItem, dir m.Path, parallel int) {
	i.ui.StageStarted(ctx, m.StageDownload)

	var group errgroup.Group
	group.SetLimit(workerLimit(parallel))

	for _, item := range items {
		currentItem := item

		group.Go(func() error {
			dest := m.Path(filepath.Join(string(dir), currentItem.ID+".png"))

			if err := i.downloader.Download(ctx, currentItem.URL, dest); err != nil {
				currentItem.fail(m.StageDownload, err)
				i.ui.StickerFinished(ctx, m.StageDownload, currentItem.Sticker, err)

				return nil
			}

			currentItem.RawPath = dest
			i.ui.StickerFinished(ctx, m.StageDownload, currentItem.Sticker, nil)

			return nil
		})
	}

	// Workers report per-sticker failures on the item itself.
	_ = group.Wait()
}

func (i *importer) resize(ctx context.Context, items []*pipelineItem, dir m.Path, parallel int) {
	i.ui.StageStarted(ctx, m.StageResize)

	var group errgroup.Group
	group.SetLimit(workerLimit(parallel))

	for _, item := range items {
		if item.err != nil {
			continue
		}

		currentItem := item

		group.Go(func() error {
			dest := m.Path(filepath.Join(string(dir), currentItem.ID+".resized.png"))

			if err := i.resizer.Resize(currentItem.RawPath, dest); err != nil {
				currentItem.fail(m.StageResize, err)
				i.ui.StickerFinished(ctx, m.StageResize, currentItem.Sticker, err)

				return nil
			}

			currentItem.ResizedPath = dest
			i.ui.StickerFinished(ctx, m.StageResize, currentItem.Sticker, nil)

			return nil
		})
	}

	_ = group.Wait()
}

// upload publishes the surviving stickers sequentially: the set must exist
// before anything can be added to it. A failure to create the set aborts the
// stage; a failure to add an individual sticker does not.
func (i *importer) upload(ctx context.Context, publisher adapter.StickerPublisher, items []*pipelineItem, args ImportArgs) error {
	i.ui.StageStarted(ctx, m.StageUpload)

	created := false

	for _, item := range items {
		if item.err != nil {
			continue
		}

		emoji := i.pickEmoji()

		if !created {
			if err := publisher.CreateSet(ctx, args.SetName, args.SetTitle, item.ResizedPath, emoji); err != nil {
				item.fail(m.StageUpload, err)
				i.ui.StickerFinished(ctx, m.StageUpload, item.Sticker, err)
				slog.Error("Failed to create sticker set", "set", args.SetName, "error", err)

				return fmt.Errorf("create sticker set %s: %w", args.SetName, err)
			}

			created = true
			item.uploaded = true
			i.ui.StickerFinished(ctx, m.StageUpload, item.Sticker, nil)

			continue
		}

		if err := publisher.AddToSet(ctx, args.SetName, item.ResizedPath, emoji); err != nil {
			item.fail(m.StageUpload, err)
			i.ui.StickerFinished(ctx, m.StageUpload, item.Sticker, err)
			slog.Error("Failed to add sticker to set", "set", args.SetName, "sticker", item.ID, "error", err)

			continue
		}

		item.uploaded = true
		i.ui.StickerFinished(ctx, m.StageUpload, item.Sticker, nil)
	}

	return nil
}

func (i *importer) buildReport(args ImportArgs, found int, startedAt time.Time, items []*pipelineItem) *m.Report {
	report := &m.Report{
		PageURL:     args.PageURL,
		SetName:     args.SetName,
		SetTitle:    args.SetTitle,
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		Found:       found,
		DownloadDir: args.DownloadDir,
	}

	for _, item := range items {
		row := m.ReportRow{StickerID: item.ID}

		switch {
		case item.uploaded:
			row.Status = m.StatusUploaded
			report.Uploaded++
		case item.err != nil:
			row.Status = m.StatusFailed
			row.Stage = item.failedAt
			row.Note = item.err.Error()
			report.Failed++
		default:
			row.Status = m.StatusSkipped
			report.Skipped++
		}

		if item.RawPath != "" {
			report.Downloaded++
		}

		if item.ResizedPath != "" {
			report.Resized++
		}

		report.Rows = append(report.Rows, row)
	}

	return report
}

func workerLimit(parallel int) int {
	if parallel < 1 {
		return 1
	}

	return parallel
}

func randomEmoji() string {
	return stickerEmojis[rand.IntN(len(stickerEmojis))]
}
