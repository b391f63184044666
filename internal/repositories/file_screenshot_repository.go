package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"
)

// FileScreenshotRepository is a FileStore-backed implementation of ScreenshotRepository.
type FileScreenshotRepository struct {
	store *FileStore
}

// NewFileScreenshotRepository creates a new instance of FileScreenshotRepository.
func NewFileScreenshotRepository(store *FileStore) *FileScreenshotRepository {
	return &FileScreenshotRepository{store: store}
}

// Create assigns the next id, appends the screenshot and persists.
// On a failed write the in-memory collection is left unchanged.
func (r *FileScreenshotRepository) Create(screenshot *models.Screenshot) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	screenshot.ID = s.nextScreenshotID
	if screenshot.CreatedAt.IsZero() {
		screenshot.CreatedAt = time.Now().UTC()
	}

	previous := s.data.Screenshots
	s.data.Screenshots = append(previous, cloneScreenshot(*screenshot))
	if err := s.persist(); err != nil {
		s.data.Screenshots = previous
		screenshot.ID = 0
		return fmt.Errorf("failed to create screenshot: %w", err)
	}
	s.nextScreenshotID++
	return nil
}

// List returns the owner's screenshots newest first, offset then limit applied.
func (r *FileScreenshotRepository) List(userID int64, limit, offset int) ([]models.Screenshot, error) {
	return page(r.owned(userID, nil), limit, offset), nil
}

// GetByID returns a screenshot by its ID.
func (r *FileScreenshotRepository) GetByID(id int64) (*models.Screenshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.data.Screenshots {
		if r.store.data.Screenshots[i].ID == id {
			found := r.store.data.Screenshots[i]
			return &found, nil
		}
	}
	return nil, fmt.Errorf("screenshot with ID %d: %w", id, ErrNotFound)
}

// Search returns the owner's screenshots whose text or tags contain query.
func (r *FileScreenshotRepository) Search(userID int64, query string) ([]models.Screenshot, error) {
	return r.owned(userID, func(s *models.Screenshot) bool { return s.Matches(query) }), nil
}

// FindByFingerprint returns the first of the owner's screenshots with the given fingerprint.
func (r *FileScreenshotRepository) FindByFingerprint(userID int64, fingerprint string) (*models.Screenshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.data.Screenshots {
		sc := r.store.data.Screenshots[i]
		if sc.UserID == userID && sc.Fingerprint == fingerprint {
			return &sc, nil
		}
	}
	return nil, fmt.Errorf("screenshot with fingerprint %s: %w", fingerprint, ErrNotFound)
}

// Delete removes a screenshot by its ID. Deleting a missing id is a no-op.
func (r *FileScreenshotRepository) Delete(id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.data.Screenshots {
		if s.data.Screenshots[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil
	}

	previous := s.data.Screenshots
	remaining := make([]models.Screenshot, 0, len(previous)-1)
	remaining = append(remaining, previous[:index]...)
	remaining = append(remaining, previous[index+1:]...)
	s.data.Screenshots = remaining
	if err := s.persist(); err != nil {
		s.data.Screenshots = previous
		return fmt.Errorf("failed to delete screenshot %d: %w", id, err)
	}
	return nil
}

// owned copies the owner's screenshots that satisfy keep, newest first.
func (r *FileScreenshotRepository) owned(userID int64, keep func(*models.Screenshot) bool) []models.Screenshot {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	list := make([]models.Screenshot, 0)
	for i := range r.store.data.Screenshots {
		sc := &r.store.data.Screenshots[i]
		if sc.UserID != userID {
			continue
		}
		if keep != nil && !keep(sc) {
			continue
		}
		list = append(list, *sc)
	}
	sortNewestFirst(list)
	return list
}

// cloneScreenshot detaches the strings and tags from buffers the caller may reuse.
func cloneScreenshot(sc models.Screenshot) models.Screenshot {
	sc.Filename = strings.Clone(sc.Filename)
	sc.Filepath = strings.Clone(sc.Filepath)
	sc.ExtractedText = strings.Clone(sc.ExtractedText)
	sc.Fingerprint = strings.Clone(sc.Fingerprint)
	tags := make([]string, len(sc.Tags))
	for i, tag := range sc.Tags {
		tags[i] = strings.Clone(tag)
	}
	sc.Tags = tags
	return sc
}
