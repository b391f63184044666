package repositories

import "github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"

// DefaultListLimit is used when a caller asks for a negative page size.
const DefaultListLimit = 100

// ScreenshotRepository defines the interface for screenshot data access.
// Every read that takes a userID filters by owner before any other predicate.
type ScreenshotRepository interface {
	Create(screenshot *models.Screenshot) error
	List(userID int64, limit, offset int) ([]models.Screenshot, error)
	GetByID(id int64) (*models.Screenshot, error)
	Search(userID int64, query string) ([]models.Screenshot, error)
	FindByFingerprint(userID int64, fingerprint string) (*models.Screenshot, error)
	Delete(id int64) error
}
