package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "lstt/internal/model"
)

func TestHTTPDownloader_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sticker/111/android/sticker.png":
			_, _ = w.Write([]byte("png-bytes-111"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	downloader := NewHTTPDownloader(server.Client())

	t.Run("writes body to dest", func(t *testing.T) {
		dest := m.Path(filepath.Join(t.TempDir(), "111.png"))

		err := downloader.Download(context.Background(), server.URL+"/sticker/111/android/sticker.png", dest)
		require.NoError(t, err)

		data, err := os.ReadFile(string(dest))
		require.NoError(t, err)
		assert.Equal(t, "png-bytes-111", string(data))
	})

	t.Run("bad status leaves no file", func(t *testing.T) {
		dest := m.Path(filepath.Join(t.TempDir(), "404.png"))

		err := downloader.Download(context.Background(), server.URL+"/sticker/404/android/sticker.png", dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")

		_, statErr := os.Stat(string(dest))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("canceled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		dest := m.Path(filepath.Join(t.TempDir(), "111.png"))

		err := downloader.Download(ctx, server.URL+"/sticker/111/android/sticker.png", dest)
		require.Error(t, err)
	})
}
