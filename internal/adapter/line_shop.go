package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"golang.org/x/net/html"

	m "lstt/internal/model"
)

// ShopScraper abstracts discovering stickers on a LINE shop product page.
type ShopScraper interface {
	// Stickers fetches pageURL and returns the stickers found on it, in
	// page order and deduplicated by sticker ID.
	Stickers(ctx context.Context, pageURL string) ([]m.Sticker, error)
}

// LINE renders each sticker as a preview element whose class ends in
// "FnPreview" and whose inline style carries the image URL.
var (
	previewClassPattern = regexp.MustCompile(` FnPreview$`)
	stickerStylePattern = regexp.MustCompile(`background-image:url\((https://stickershop\.line-scdn\.net/stickershop/v\d+/sticker/(\d+)/android/sticker\.png);compress=true\);`)
)

// LineShop provides a concrete ShopScraper over HTTP.
type LineShop struct {
	client *http.Client
}

// NewLineShop constructs a LineShop. A nil client falls back to
// http.DefaultClient.
func NewLineShop(client *http.Client) *LineShop {
	if client == nil {
		client = http.DefaultClient
	}

	return &LineShop{client: client}
}

// Stickers implements ShopScraper.
func (s *LineShop) Stickers(ctx context.Context, pageURL string) ([]m.Sticker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build page request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("failed to fetch sticker page", "url", pageURL, "error", err)
		return nil, fmt.Errorf("failed to fetch sticker page: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close response body", "url", pageURL, "error", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		slog.Error("sticker page returned bad status", "url", pageURL, "status", resp.Status)
		return nil, fmt.Errorf("sticker page returned %s", resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sticker page: %w", err)
	}

	stickers := collectStickers(doc)

	slog.Info("scraped sticker page", "url", pageURL, "stickers", len(stickers))

	if len(stickers) == 0 {
		return nil, fmt.Errorf("no stickers found on %s", pageURL)
	}

	return stickers, nil
}

func collectStickers(doc *html.Node) []m.Sticker {
	var stickers []m.Sticker

	seen := map[string]bool{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && previewClassPattern.MatchString(attrValue(n, "class")) {
			match := stickerStylePattern.FindStringSubmatch(attrValue(n, "style"))
			if match != nil && !seen[match[2]] {
				seen[match[2]] = true

				stickers = append(stickers, m.Sticker{ID: match[2], URL: match[1]})
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return stickers
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}

	return ""
}
