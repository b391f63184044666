package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/metrics"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/pipeline"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/repositories"

	"go.uber.org/zap"
)

// Event routing keys.
const (
	EventScreenshotCreated = "screenshot.created"
	EventScreenshotDeleted = "screenshot.deleted"
)

// UploadsPrefix is the public path uploads are recorded and served under.
const UploadsPrefix = "uploads"

// PublicPath returns the recorded filepath for a file stored as name.
func PublicPath(name string) string {
	return path.Join(UploadsPrefix, name)
}

// Processor turns a stored upload into screenshot metadata.
type Processor interface {
	Process(ctx context.Context, userID int64, path, filename string) (*models.ProcessedResult, error)
}

// EventPublisher publishes screenshot lifecycle events.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// ScreenshotEvent is the payload of lifecycle events.
type ScreenshotEvent struct {
	ScreenshotID int64     `json:"screenshotId"`
	UserID       int64     `json:"userId"`
	Filename     string    `json:"filename"`
	Tags         []string  `json:"tags,omitempty"`
	IsDuplicate  bool      `json:"isDuplicate,omitempty"`
	At           time.Time `json:"at"`
}

// ScreenshotService handles business logic related to screenshots.
type ScreenshotService struct {
	repo      repositories.ScreenshotRepository
	processor Processor
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	uploadDir string
}

// NewScreenshotService creates a new ScreenshotService whose files live in
// uploadDir. publisher and m may be nil.
func NewScreenshotService(repo repositories.ScreenshotRepository, processor Processor, publisher EventPublisher, m *metrics.Metrics, logger *zap.Logger, uploadDir string) *ScreenshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreenshotService{
		repo:      repo,
		processor: processor,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With(zap.String("component", "screenshots")),
		uploadDir: uploadDir,
	}
}

// Upload processes the image already written to diskPath inside the upload
// directory and records it for userID under its public path. If processing
// or the insert fails the file is removed.
func (s *ScreenshotService) Upload(ctx context.Context, userID int64, diskPath, filename string) (*models.UploadResult, error) {
	result, err := s.processor.Process(ctx, userID, diskPath, filename)
	if err != nil {
		s.discard(diskPath, userID, err)
		if errors.Is(err, pipeline.ErrImageTooLarge) {
			return nil, fmt.Errorf("image too large: %w", ErrValidation)
		}
		return nil, err
	}
	result.Filepath = PublicPath(filepath.Base(diskPath))

	screenshot := result.ToScreenshot(userID)
	if err := s.repo.Create(screenshot); err != nil {
		s.discard(diskPath, userID, err)
		return nil, fmt.Errorf("failed to save screenshot: %w", err)
	}
	s.metrics.UploadSucceeded(result.IsDuplicate)

	s.logger.Info("screenshot stored",
		zap.Int64("screenshot_id", screenshot.ID),
		zap.Int64("user_id", userID),
		zap.Strings("tags", result.Tags),
		zap.Bool("duplicate", result.IsDuplicate))

	s.publish(EventScreenshotCreated, ScreenshotEvent{
		ScreenshotID: screenshot.ID,
		UserID:       userID,
		Filename:     screenshot.Filename,
		Tags:         screenshot.Tags,
		IsDuplicate:  result.IsDuplicate,
		At:           screenshot.CreatedAt,
	})

	return &models.UploadResult{ID: screenshot.ID, ProcessedResult: *result}, nil
}

// List returns a page of the user's screenshots, newest first.
func (s *ScreenshotService) List(userID int64, limit, offset int) ([]models.Screenshot, error) {
	return s.repo.List(userID, limit, offset)
}

// Search returns the user's screenshots whose text or tags contain query.
func (s *ScreenshotService) Search(userID int64, query string) ([]models.Screenshot, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query required: %w", ErrValidation)
	}
	return s.repo.Search(userID, query)
}

// Get returns a screenshot the user owns.
func (s *ScreenshotService) Get(userID, id int64) (*models.Screenshot, error) {
	screenshot, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get screenshot %d: %w", id, err)
	}
	if screenshot.UserID != userID {
		return nil, ErrForbidden
	}
	return screenshot, nil
}

// Delete removes a screenshot the user owns, then its file. Failing to remove
// the file is logged and does not fail the delete.
func (s *ScreenshotService) Delete(userID, id int64) error {
	screenshot, err := s.Get(userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete screenshot %d: %w", id, err)
	}

	file := s.diskPath(screenshot.Filepath)
	if err := os.Remove(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("screenshot file already missing",
				zap.Int64("screenshot_id", id),
				zap.String("path", file))
		} else {
			s.logger.Error("failed to remove screenshot file",
				zap.Int64("screenshot_id", id),
				zap.String("path", file),
				zap.Error(err))
		}
	}

	s.logger.Info("screenshot deleted", zap.Int64("screenshot_id", id), zap.Int64("user_id", userID))
	s.publish(EventScreenshotDeleted, ScreenshotEvent{
		ScreenshotID: id,
		UserID:       userID,
		Filename:     screenshot.Filename,
		At:           time.Now().UTC(),
	})
	return nil
}

// diskPath resolves a recorded filepath to its file in the upload directory.
func (s *ScreenshotService) diskPath(recorded string) string {
	return filepath.Join(s.uploadDir, filepath.Base(filepath.FromSlash(recorded)))
}

func (s *ScreenshotService) discard(file string, userID int64, cause error) {
	s.metrics.UploadFailed()
	s.logger.Error("upload processing failed",
		zap.Int64("user_id", userID),
		zap.String("path", file),
		zap.Error(cause))
	if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove orphaned upload", zap.String("path", file), zap.Error(err))
	}
}

func (s *ScreenshotService) publish(routingKey string, event ScreenshotEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event", routingKey),
			zap.Int64("screenshot_id", event.ScreenshotID),
			zap.Error(err))
	}
}
