package adapter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	m "lstt/internal/model"
	"lstt/pkg"
)

// Downloader abstracts fetching a remote file onto the local disk.
type Downloader interface {
	// Download fetches url and writes the body to dest. dest only comes
	// into existence once the whole body has been received.
	Download(ctx context.Context, url string, dest m.Path) error
}

// HTTPDownloader provides a concrete Downloader over HTTP.
type HTTPDownloader struct {
	client *http.Client
}

// NewHTTPDownloader constructs an HTTPDownloader. A nil client falls back
// to http.DefaultClient.
func NewHTTPDownloader(client *http.Client) *HTTPDownloader {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPDownloader{client: client}
}

// Download implements Downloader.
func (d *HTTPDownloader) Download(ctx context.Context, url string, dest m.Path) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		slog.Error("failed to download", "url", url, "error", err)
		return fmt.Errorf("failed to download %s: %w", url, err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close response body", "url", url, "error", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		slog.Error("download returned bad status", "url", url, "status", resp.Status)
		return fmt.Errorf("download of %s returned %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read download body: %w", err)
	}

	if err := pkg.WriteFileAtomic(string(dest), body, 0o644); err != nil {
		return err
	}

	slog.Debug("downloaded file", "url", url, "dest", dest, "bytes", len(body))

	return nil
}
