package controller

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "lstt/internal/model"
)

func newPlainUIWithBuffer() (*PlainUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewPlainUI(cmd), &buf
}

func TestPlainUI_Start(t *testing.T) {
	ui, buf := newPlainUIWithBuffer()

	require.NoError(t, ui.Start(context.Background(), []m.Sticker{{ID: "111"}, {ID: "222"}}))
	assert.Contains(t, buf.String(), "found 2 stickers")
}

func TestPlainUI_StageStarted(t *testing.T) {
	ui, buf := newPlainUIWithBuffer()

	ui.StageStarted(context.Background(), m.StageDownload)
	ui.StageStarted(context.Background(), m.StageResize)
	ui.StageStarted(context.Background(), m.StageUpload)

	got := buf.String()
	assert.Contains(t, got, "🔽 Downloading...")
	assert.Contains(t, got, "📐 Resizing...")
	assert.Contains(t, got, "🔼 Uploading...")
}

func TestPlainUI_StickerFinished(t *testing.T) {
	tests := []struct {
		name         string
		stage        m.Stage
		err          error
		wantContains []string
	}{
		{
			name:         "download success",
			stage:        m.StageDownload,
			wantContains: []string{"🔽 downloaded 111"},
		},
		{
			name:         "resize success",
			stage:        m.StageResize,
			wantContains: []string{"📐 resized 111"},
		},
		{
			name:         "upload success",
			stage:        m.StageUpload,
			wantContains: []string{"🔼 uploaded 111"},
		},
		{
			name:         "download failure",
			stage:        m.StageDownload,
			err:          errors.New("status 404"),
			wantContains: []string{"❌", "couldn't download 111", "status 404"},
		},
		{
			name:         "upload failure",
			stage:        m.StageUpload,
			err:          errors.New("STICKERSET_INVALID"),
			wantContains: []string{"❌", "couldn't upload 111", "STICKERSET_INVALID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, buf := newPlainUIWithBuffer()

			ui.StickerFinished(context.Background(), tt.stage, m.Sticker{ID: "111"}, tt.err)

			for _, want := range tt.wantContains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestPlainUI_ConcurrentStickerFinished(t *testing.T) {
	ui, buf := newPlainUIWithBuffer()

	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)

		id := fmt.Sprintf("%d", 100+i)

		go func() {
			defer wg.Done()
			ui.StickerFinished(context.Background(), m.StageDownload, m.Sticker{ID: id}, nil)
		}()
	}

	wg.Wait()

	assert.Equal(t, 16, strings.Count(buf.String(), "\n"))
}

func TestPlainUI_DisplayStickers(t *testing.T) {
	ui, buf := newPlainUIWithBuffer()

	stickers := []m.Sticker{
		{ID: "111", URL: "https://stickershop.line-scdn.net/stickershop/v1/sticker/111/android/sticker.png"},
		{ID: "222", URL: "https://stickershop.line-scdn.net/stickershop/v1/sticker/222/android/sticker.png"},
	}

	require.NoError(t, ui.DisplayStickers(context.Background(), stickers))

	got := buf.String()
	assert.Contains(t, got, "found 2 stickers")
	assert.Contains(t, got, "111")
	assert.Contains(t, got, "https://stickershop.line-scdn.net/stickershop/v1/sticker/222/android/sticker.png")
}

func TestPlainUI_DisplaySummary(t *testing.T) {
	ui, buf := newPlainUIWithBuffer()

	report := &m.Report{
		PageURL:     "https://store.line.me/stickershop/product/1/en",
		SetName:     "pack_by_bot",
		DownloadDir: m.Path("/tmp/lstt"),
		Uploaded:    1,
		Failed:      1,
		Rows: []m.ReportRow{
			{StickerID: "111", Status: m.StatusUploaded},
			{StickerID: "222", Status: m.StatusFailed, Stage: m.StageDownload, Note: "status 404"},
		},
	}

	require.NoError(t, ui.DisplaySummary(context.Background(), report))

	got := buf.String()
	assert.Contains(t, got, "111")
	assert.Contains(t, got, "uploaded")
	assert.Contains(t, got, "222")
	assert.Contains(t, got, "status 404")
	assert.Contains(t, got, filepath.Join("/tmp/lstt", "lstt-report.yaml"))
}

func TestPlainUI_CanceledContext(t *testing.T) {
	ui, buf := newPlainUIWithBuffer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, ui.Start(ctx, nil))
	ui.StageStarted(ctx, m.StageDownload)
	ui.StickerFinished(ctx, m.StageDownload, m.Sticker{ID: "111"}, nil)
	assert.Error(t, ui.DisplayStickers(ctx, nil))
	assert.Error(t, ui.DisplaySummary(ctx, &m.Report{}))

	assert.Empty(t, buf.String())
}
