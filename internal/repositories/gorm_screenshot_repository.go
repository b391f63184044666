package repositories

import (
	"errors"
	"fmt"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"

	"gorm.io/gorm"
)

// GORMScreenshotRepository is a GORM implementation of ScreenshotRepository.
type GORMScreenshotRepository struct {
	db *gorm.DB
}

// NewGORMScreenshotRepository creates a new instance of GORMScreenshotRepository.
func NewGORMScreenshotRepository(db *gorm.DB) *GORMScreenshotRepository {
	return &GORMScreenshotRepository{
		db: db,
	}
}

// Create inserts a screenshot; the database assigns the id.
func (r *GORMScreenshotRepository) Create(screenshot *models.Screenshot) error {
	screenshot.ID = 0
	if err := r.db.Create(screenshot).Error; err != nil {
		return fmt.Errorf("failed to create screenshot: %w", err)
	}
	return nil
}

// List retrieves the owner's screenshots newest first.
func (r *GORMScreenshotRepository) List(userID int64, limit, offset int) ([]models.Screenshot, error) {
	if limit < 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	screenshots := make([]models.Screenshot, 0)
	if limit == 0 {
		return screenshots, nil
	}
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Offset(offset).Limit(limit).
		Find(&screenshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list screenshots for user %d: %w", userID, err)
	}
	return screenshots, nil
}

// GetByID retrieves a single screenshot by its ID.
func (r *GORMScreenshotRepository) GetByID(id int64) (*models.Screenshot, error) {
	var screenshot models.Screenshot
	if err := r.db.First(&screenshot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("screenshot with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get screenshot by ID %d: %w", id, err)
	}
	return &screenshot, nil
}

// Search loads the owner's screenshots and filters them with the same
// predicate as the file store, since tags are stored as serialized JSON.
func (r *GORMScreenshotRepository) Search(userID int64, query string) ([]models.Screenshot, error) {
	var owned []models.Screenshot
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&owned).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search screenshots for user %d: %w", userID, err)
	}

	results := make([]models.Screenshot, 0)
	for i := range owned {
		if owned[i].Matches(query) {
			results = append(results, owned[i])
		}
	}
	return results, nil
}

// FindByFingerprint returns the owner's oldest screenshot with the fingerprint.
func (r *GORMScreenshotRepository) FindByFingerprint(userID int64, fingerprint string) (*models.Screenshot, error) {
	var screenshot models.Screenshot
	err := r.db.Where("user_id = ? AND fingerprint = ?", userID, fingerprint).
		Order("id asc").
		First(&screenshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("screenshot with fingerprint %s: %w", fingerprint, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find screenshot by fingerprint: %w", err)
	}
	return &screenshot, nil
}

// Delete deletes a screenshot by its ID. Zero affected rows is not an error.
func (r *GORMScreenshotRepository) Delete(id int64) error {
	if err := r.db.Delete(&models.Screenshot{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete screenshot: %w", err)
	}
	return nil
}
