package adapter

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"

	m "lstt/internal/model"
	"lstt/pkg"
)

// MaxStickerSide is the dimension Telegram requires for the longest side
// of a static sticker.
const MaxStickerSide = 512

// Resizer abstracts rescaling a sticker image to Telegram dimensions.
type Resizer interface {
	// Resize reads the image at src and writes a copy to dest whose
	// longest side is exactly MaxStickerSide pixels. Smaller images are
	// scaled up.
	Resize(src, dest m.Path) error
}

// PNGResizer provides a concrete Resizer for PNG sticker images.
type PNGResizer struct{}

// NewPNGResizer constructs a PNGResizer.
func NewPNGResizer() *PNGResizer {
	return &PNGResizer{}
}

// Resize implements Resizer.
func (r *PNGResizer) Resize(src, dest m.Path) error {
	file, err := os.Open(string(src))
	if err != nil {
		slog.Error("failed to open image", "path", src, "error", err)
		return fmt.Errorf("failed to open image: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close image", "path", src, "error", err)
		}
	}()

	img, _, err := image.Decode(file)
	if err != nil {
		slog.Error("failed to decode image", "path", src, "error", err)
		return fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := scaledSize(bounds.Dx(), bounds.Dy())

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	if err := pkg.WriteFileAtomic(string(dest), buf.Bytes(), 0o644); err != nil {
		return err
	}

	slog.Debug("resized image",
		"src", src,
		"dest", dest,
		"from", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"to", fmt.Sprintf("%dx%d", width, height))

	return nil
}

// scaledSize rescales width and height so the longest side lands exactly
// on MaxStickerSide, truncating the shorter side like integer division.
func scaledSize(width, height int) (int, int) {
	coefficient := float64(max(width, height)) / MaxStickerSide

	width = int(float64(width) / coefficient)
	height = int(float64(height) / coefficient)

	return max(width, 1), max(height, 1)
}
