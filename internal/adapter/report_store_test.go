package adapter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "lstt/internal/model"
)

func sampleReport(dir m.Path) *m.Report {
	started := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	return &m.Report{
		PageURL:     "https://store.line.me/stickershop/product/42/en",
		SetName:     "pack_by_bot",
		SetTitle:    "My Pack",
		StartedAt:   started,
		FinishedAt:  started.Add(90 * time.Second),
		Found:       3,
		Downloaded:  2,
		Resized:     2,
		Uploaded:    2,
		Failed:      1,
		Rows: []m.ReportRow{
			{StickerID: "111", Status: m.StatusUploaded},
			{StickerID: "222", Status: m.StatusUploaded},
			{StickerID: "333", Status: m.StatusFailed, Stage: m.StageDownload, Note: "download of x returned 404"},
		},
		DownloadDir: dir,
	}
}

func TestYAMLReportStore_SaveLoad(t *testing.T) {
	dir := m.Path(t.TempDir())
	store := NewYAMLReportStore()

	require.NoError(t, store.Save(dir, sampleReport(dir)))

	loaded, err := store.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, sampleReport(dir), loaded)
}

func TestYAMLReportStore_SaveReplacesPreviousRun(t *testing.T) {
	dir := m.Path(t.TempDir())
	store := NewYAMLReportStore()

	first := sampleReport(dir)
	require.NoError(t, store.Save(dir, first))

	second := sampleReport(dir)
	second.SetName = "other_pack_by_bot"
	second.Rows = second.Rows[:1]
	require.NoError(t, store.Save(dir, second))

	loaded, err := store.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "other_pack_by_bot", loaded.SetName)
	assert.Len(t, loaded.Rows, 1)
}

func TestYAMLReportStore_SaveIsReadable(t *testing.T) {
	dir := m.Path(t.TempDir())
	store := NewYAMLReportStore()

	require.NoError(t, store.Save(dir, sampleReport(dir)))

	data, err := os.ReadFile(filepath.Join(string(dir), ReportFileName))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "set_name: pack_by_bot")
	assert.Contains(t, content, "sticker_id: \"333\"")
	assert.Contains(t, content, "stage: download")
}

func TestYAMLReportStore_LoadMissing(t *testing.T) {
	store := NewYAMLReportStore()

	_, err := store.Load(m.Path(t.TempDir()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestYAMLReportStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ReportFileName), []byte(":\tnot yaml"), 0o644))

	store := NewYAMLReportStore()

	_, err := store.Load(m.Path(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode report")
}
