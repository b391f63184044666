package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"

	"go.uber.org/zap"
)

// snapshot is the on-disk layout: two named collections in one JSON document.
type snapshot struct {
	Screenshots []models.Screenshot `json:"screenshots"`
	Users       []models.User       `json:"users"`
}

// FileStore keeps both collections in memory and rewrites the whole file
// after every mutation. All mutations are serialized by mu.
type FileStore struct {
	path string

	mu               sync.RWMutex
	data             snapshot
	nextScreenshotID int64
	nextUserID       int64
}

// OpenFileStore loads the collections from path. A missing or unparsable file
// yields empty collections, which are persisted immediately.
func OpenFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FileStore{path: path}

	reset := false
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, &s.data); jsonErr != nil {
			logger.Warn("database file is not valid JSON, starting empty",
				zap.String("path", path), zap.Error(jsonErr))
			s.data = snapshot{}
			reset = true
		}
	case errors.Is(err, fs.ErrNotExist):
		reset = true
	default:
		logger.Warn("could not read database file, starting empty",
			zap.String("path", path), zap.Error(err))
		reset = true
	}

	if s.data.Screenshots == nil {
		s.data.Screenshots = []models.Screenshot{}
	}
	if s.data.Users == nil {
		s.data.Users = []models.User{}
	}
	s.nextScreenshotID = 1
	for _, sc := range s.data.Screenshots {
		if sc.ID >= s.nextScreenshotID {
			s.nextScreenshotID = sc.ID + 1
		}
	}
	s.nextUserID = 1
	for _, u := range s.data.Users {
		if u.ID >= s.nextUserID {
			s.nextUserID = u.ID + 1
		}
	}

	if reset {
		if err := s.persist(); err != nil {
			return nil, err
		}
	}
	logger.Info("database initialized",
		zap.String("path", path),
		zap.Int("screenshots", len(s.data.Screenshots)),
		zap.Int("users", len(s.data.Users)))
	return s, nil
}

// Path returns the location of the persisted file.
func (s *FileStore) Path() string {
	return s.path
}

// persist writes the full snapshot to a temp file and renames it over the
// target. Callers must hold mu for writing.
func (s *FileStore) persist() error {
	body, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode database: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp database file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write database: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace database file: %w", err)
	}
	return nil
}
