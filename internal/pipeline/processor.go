package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"time"

	// Registered decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/repositories"

	"go.uber.org/zap"
)

// Engine extracts text from the image at path.
type Engine interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// DuplicateFinder looks up an earlier screenshot by fingerprint.
type DuplicateFinder interface {
	FindByFingerprint(userID int64, fingerprint string) (*models.Screenshot, error)
}

// DefaultMaxPixels caps width×height of a decoded upload.
const DefaultMaxPixels = 40_000_000

// ErrImageTooLarge is returned for images whose dimensions exceed the pixel cap.
var ErrImageTooLarge = errors.New("image dimensions too large")

// Config tunes the processor.
type Config struct {
	FingerprintSize int
	OCRTimeout      time.Duration
	MaxPixels       int
}

// Processor runs the upload pipeline.
type Processor struct {
	ocr    Engine
	finder DuplicateFinder
	cfg    Config
	logger *zap.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(ocr Engine, finder DuplicateFinder, cfg Config, logger *zap.Logger) *Processor {
	if cfg.FingerprintSize <= 0 {
		cfg.FingerprintSize = DefaultFingerprintSize
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultMaxPixels
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		ocr:    ocr,
		finder: finder,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "pipeline")),
	}
}

// Process reads the image stored at path and returns its processed metadata.
// filename is the display name recorded for the upload; userID scopes the
// duplicate lookup to the uploader's own screenshots.
func (p *Processor) Process(ctx context.Context, userID int64, path, filename string) (*models.ProcessedResult, error) {
	img, size, err := readImage(path, p.cfg.MaxPixels)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()

	hash := Fingerprint(img, p.cfg.FingerprintSize)

	result := &models.ProcessedResult{
		Filename: filename,
		Filepath: path,
		Hash:     hash,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Size:     size,
	}

	duplicate, err := p.finder.FindByFingerprint(userID, hash)
	switch {
	case err == nil:
		id := duplicate.ID
		result.IsDuplicate = true
		result.DuplicateOf = &id
		p.logger.Info("duplicate upload detected",
			zap.Int64("user_id", userID),
			zap.Int64("duplicate_of", id),
			zap.String("filename", duplicate.Filename))
	case errors.Is(err, repositories.ErrNotFound):
	default:
		// Duplicate detection is advisory; a failed lookup does not fail the upload.
		p.logger.Warn("duplicate lookup failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	ocrCtx := ctx
	if p.cfg.OCRTimeout > 0 {
		var cancel context.CancelFunc
		ocrCtx, cancel = context.WithTimeout(ctx, p.cfg.OCRTimeout)
		defer cancel()
	}
	started := time.Now()
	text, err := p.ocr.Recognize(ocrCtx, path)
	if err != nil {
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}
	p.logger.Debug("ocr finished",
		zap.String("path", path),
		zap.Duration("took", time.Since(started)),
		zap.Int("chars", len(text)))

	result.ExtractedText = strings.TrimSpace(text)
	result.Tags = Tags(text)
	return result, nil
}

// readImage decodes the file at path and reports its size in bytes. The
// header is checked against maxPixels before any pixel data is decoded.
func readImage(path string, maxPixels int) (image.Image, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to stat image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read image metadata: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, 0, fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width > maxPixels/cfg.Height {
		return nil, 0, fmt.Errorf("%dx%d exceeds %d pixels: %w", cfg.Width, cfg.Height, maxPixels, ErrImageTooLarge)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("failed to rewind image: %w", err)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, info.Size(), nil
}
