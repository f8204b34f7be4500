package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	m "lstt/internal/model"
)

// DefaultAPIBase is the public Telegram Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

// Telegram limits for sticker set identifiers.
const (
	maxSetNameLen  = 64
	maxSetTitleLen = 64
)

var setNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// StickerPublisher abstracts publishing stickers to a Telegram sticker set
// owned by a user.
type StickerPublisher interface {
	// CreateSet creates a new sticker set seeded with the given sticker.
	CreateSet(ctx context.Context, name, title string, sticker m.Path, emoji string) error

	// AddToSet appends one sticker to an existing set.
	AddToSet(ctx context.Context, name string, sticker m.Path, emoji string) error
}

// APIError is a failure reported by the Bot API itself, as opposed to a
// transport failure.
type APIError struct {
	Code        int
	Description string
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s (code %d)", e.Description, e.Code)
}

// BotAPI provides a concrete StickerPublisher over the Telegram Bot API.
type BotAPI struct {
	base   string
	token  string
	userID int64
	client *http.Client
}

// NewBotAPI constructs a BotAPI for the bot identified by token, acting on
// behalf of userID. An empty base falls back to DefaultAPIBase and a nil
// client to http.DefaultClient.
func NewBotAPI(base, token string, userID int64, client *http.Client) *BotAPI {
	if base == "" {
		base = DefaultAPIBase
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &BotAPI{base: base, token: token, userID: userID, client: client}
}

// CreateSet implements StickerPublisher.
func (b *BotAPI) CreateSet(ctx context.Context, name, title string, sticker m.Path, emoji string) error {
	fields := map[string]string{
		"user_id": strconv.FormatInt(b.userID, 10),
		"name":    name,
		"title":   title,
		"emojis":  emoji,
	}

	return b.call(ctx, "createNewStickerSet", fields, sticker)
}

// AddToSet implements StickerPublisher.
func (b *BotAPI) AddToSet(ctx context.Context, name string, sticker m.Path, emoji string) error {
	fields := map[string]string{
		"user_id": strconv.FormatInt(b.userID, 10),
		"name":    name,
		"emojis":  emoji,
	}

	return b.call(ctx, "addStickerToSet", fields, sticker)
}

// call posts one Bot API method as a multipart form carrying the sticker
// file in the png_sticker field.
func (b *BotAPI) call(ctx context.Context, method string, fields map[string]string, sticker m.Path) error {
	var body bytes.Buffer

	form := multipart.NewWriter(&body)

	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to encode %s field: %w", key, err)
		}
	}

	file, err := os.Open(string(sticker))
	if err != nil {
		return fmt.Errorf("failed to open sticker: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close sticker", "path", sticker, "error", err)
		}
	}()

	part, err := form.CreateFormFile("png_sticker", filepath.Base(string(sticker)))
	if err != nil {
		return fmt.Errorf("failed to encode sticker field: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to encode sticker: %w", err)
	}

	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to finish form: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", b.base, b.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}

	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		slog.Error("bot api request failed", "method", method, "error", err)
		return fmt.Errorf("failed to call %s: %w", method, err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close response body", "method", method, "error", err)
		}
	}()

	// The Bot API reports failures as JSON with a non-2xx status, so the
	// body is decoded before the status is considered.
	var result struct {
		OK          bool   `json:"ok"`
		ErrorCode   int    `json:"error_code"`
		Description string `json:"description"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Error("bot api returned unreadable body", "method", method, "status", resp.Status, "error", err)
		return fmt.Errorf("%s returned %s with unreadable body: %w", method, resp.Status, err)
	}

	if !result.OK {
		slog.Error("bot api rejected call",
			"method", method,
			"code", result.ErrorCode,
			"description", result.Description)

		return &APIError{Code: result.ErrorCode, Description: result.Description}
	}

	slog.Debug("bot api call ok", "method", method, "sticker", sticker)

	return nil
}

// ValidateSetName checks a sticker set name against the Bot API rules:
// 1-64 chars, english letters, digits and underscores, must begin with a
// letter, must not end with an underscore and must not contain consecutive
// underscores.
func ValidateSetName(name string) error {
	if len(name) == 0 || len(name) > maxSetNameLen {
		return fmt.Errorf("set name must be 1-%d characters, got %d", maxSetNameLen, len(name))
	}

	if !setNamePattern.MatchString(name) {
		return fmt.Errorf("set name %q must start with a letter and contain only letters, digits and underscores", name)
	}

	if name[len(name)-1] == '_' {
		return fmt.Errorf("set name %q must not end with an underscore", name)
	}

	for i := 1; i < len(name); i++ {
		if name[i] == '_' && name[i-1] == '_' {
			return fmt.Errorf("set name %q must not contain consecutive underscores", name)
		}
	}

	return nil
}

// ValidateSetTitle checks a sticker set title against the Bot API rules.
func ValidateSetTitle(title string) error {
	if len(title) == 0 || len(title) > maxSetTitleLen {
		return fmt.Errorf("set title must be 1-%d characters, got %d", maxSetTitleLen, len(title))
	}

	return nil
}
