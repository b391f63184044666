package repositories

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"

	"go.uber.org/zap"
)

// Store bundles the repositories backed by one persistence location.
type Store struct {
	Screenshots ScreenshotRepository
	Users       UserRepository
	Driver      string
	close       func() error
}

// Close releases the underlying storage.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open creates the Store for the given driver. "json" uses the flat file at
// path; "sqlite" and "postgres" use GORM with dsn.
func Open(driver, path, dsn string, logger *zap.Logger) (*Store, error) {
	switch strings.ToLower(driver) {
	case "", "json":
		fs, err := OpenFileStore(path, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Screenshots: NewFileScreenshotRepository(fs),
			Users:       NewFileUserRepository(fs),
			Driver:      "json",
		}, nil
	case "sqlite", "postgres":
		db, err := OpenGORM(driver, dsn)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		return &Store{
			Screenshots: NewGORMScreenshotRepository(db),
			Users:       NewGORMUserRepository(db),
			Driver:      strings.ToLower(driver),
			close:       sqlDB.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// sortNewestFirst sorts in place by creation time, newest first.
func sortNewestFirst(list []models.Screenshot) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].NewerThan(&list[j])
	})
}

// page applies offset then limit to an already ordered slice.
func page(list []models.Screenshot, limit, offset int) []models.Screenshot {
	if limit < 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) || limit == 0 {
		return []models.Screenshot{}
	}
	if limit > len(list)-offset {
		limit = len(list) - offset
	}
	return list[offset : offset+limit]
}
