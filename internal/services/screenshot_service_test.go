package services_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/pipeline"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/repositories"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockScreenshotRepository is a mock implementation of repositories.ScreenshotRepository
type MockScreenshotRepository struct {
	mock.Mock
}

func (m *MockScreenshotRepository) Create(screenshot *models.Screenshot) error {
	args := m.Called(screenshot)
	return args.Error(0)
}

func (m *MockScreenshotRepository) List(userID int64, limit, offset int) ([]models.Screenshot, error) {
	args := m.Called(userID, limit, offset)
	return args.Get(0).([]models.Screenshot), args.Error(1)
}

func (m *MockScreenshotRepository) GetByID(id int64) (*models.Screenshot, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Screenshot), args.Error(1)
}

func (m *MockScreenshotRepository) Search(userID int64, query string) ([]models.Screenshot, error) {
	args := m.Called(userID, query)
	return args.Get(0).([]models.Screenshot), args.Error(1)
}

func (m *MockScreenshotRepository) FindByFingerprint(userID int64, fingerprint string) (*models.Screenshot, error) {
	args := m.Called(userID, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Screenshot), args.Error(1)
}

func (m *MockScreenshotRepository) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockProcessor is a mock implementation of services.Processor
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Process(ctx context.Context, userID int64, path, filename string) (*models.ProcessedResult, error) {
	args := m.Called(ctx, userID, path, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProcessedResult), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, payload any) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

// tempUpload writes a file into a fresh upload directory.
func tempUpload(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "upload.png")
	require.NoError(t, os.WriteFile(path, []byte("png bytes"), 0o644))
	return dir, path
}

func TestScreenshotService_Upload(t *testing.T) {
	repo := new(MockScreenshotRepository)
	processor := new(MockProcessor)
	publisher := new(MockPublisher)
	dir, path := tempUpload(t)
	svc := services.NewScreenshotService(repo, processor, publisher, nil, nil, dir)

	result := &models.ProcessedResult{
		Filename: "shot.png", Filepath: path, ExtractedText: "hi",
		Tags: []string{"general"}, Hash: "abc", Width: 1, Height: 1, Size: 9,
	}
	processor.On("Process", mock.Anything, int64(5), path, "shot.png").Return(result, nil).Once()
	repo.On("Create", mock.MatchedBy(func(s *models.Screenshot) bool {
		return s.UserID == 5 && s.Fingerprint == "abc" && s.Filepath == "uploads/upload.png"
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Screenshot).ID = 11
	}).Return(nil).Once()
	publisher.On("Publish", services.EventScreenshotCreated, mock.AnythingOfType("services.ScreenshotEvent")).
		Return(errors.New("broker down")).Once()

	got, err := svc.Upload(context.Background(), 5, path, "shot.png")
	require.NoError(t, err, "publish failures are only logged")
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, "hi", got.ExtractedText)
	assert.Equal(t, "uploads/upload.png", got.Filepath)
	assert.FileExists(t, path)
	repo.AssertExpectations(t)
	processor.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestScreenshotService_Upload_ProcessingFailureRemovesFile(t *testing.T) {
	repo := new(MockScreenshotRepository)
	processor := new(MockProcessor)
	dir, path := tempUpload(t)
	svc := services.NewScreenshotService(repo, processor, nil, nil, nil, dir)

	processor.On("Process", mock.Anything, int64(5), path, "shot.png").Return(nil, errors.New("ocr exploded")).Once()

	_, err := svc.Upload(context.Background(), 5, path, "shot.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ocr exploded")
	assert.NoFileExists(t, path)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestScreenshotService_Upload_InsertFailureRemovesFile(t *testing.T) {
	repo := new(MockScreenshotRepository)
	processor := new(MockProcessor)
	dir, path := tempUpload(t)
	svc := services.NewScreenshotService(repo, processor, nil, nil, nil, dir)

	processor.On("Process", mock.Anything, int64(5), path, "shot.png").
		Return(&models.ProcessedResult{Filepath: path, Tags: []string{"general"}}, nil).Once()
	repo.On("Create", mock.Anything).Return(errors.New("disk full")).Once()

	_, err := svc.Upload(context.Background(), 5, path, "shot.png")
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestScreenshotService_Get(t *testing.T) {
	repo := new(MockScreenshotRepository)
	svc := services.NewScreenshotService(repo, new(MockProcessor), nil, nil, nil, t.TempDir())

	repo.On("GetByID", int64(1)).Return(&models.Screenshot{ID: 1, UserID: 5}, nil)
	repo.On("GetByID", int64(2)).Return(nil, repositories.ErrNotFound)

	got, err := svc.Get(5, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	_, err = svc.Get(6, 1)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.Get(5, 2)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestScreenshotService_Search(t *testing.T) {
	repo := new(MockScreenshotRepository)
	svc := services.NewScreenshotService(repo, new(MockProcessor), nil, nil, nil, t.TempDir())

	_, err := svc.Search(5, "   ")
	assert.ErrorIs(t, err, services.ErrValidation)

	repo.On("Search", int64(5), "error").Return([]models.Screenshot{{ID: 3}}, nil).Once()
	got, err := svc.Search(5, "error")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestScreenshotService_Upload_TooLargeIsValidationError(t *testing.T) {
	repo := new(MockScreenshotRepository)
	processor := new(MockProcessor)
	dir, path := tempUpload(t)
	svc := services.NewScreenshotService(repo, processor, nil, nil, nil, dir)

	processor.On("Process", mock.Anything, int64(5), path, "shot.png").
		Return(nil, fmt.Errorf("12000x12000: %w", pipeline.ErrImageTooLarge)).Once()

	_, err := svc.Upload(context.Background(), 5, path, "shot.png")
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.NoFileExists(t, path)
}

func TestScreenshotService_Delete(t *testing.T) {
	repo := new(MockScreenshotRepository)
	publisher := new(MockPublisher)
	dir, path := tempUpload(t)
	svc := services.NewScreenshotService(repo, new(MockProcessor), publisher, nil, nil, dir)

	repo.On("GetByID", int64(1)).Return(&models.Screenshot{ID: 1, UserID: 5, Filepath: "uploads/upload.png"}, nil)
	repo.On("Delete", int64(1)).Return(nil).Twice()
	publisher.On("Publish", services.EventScreenshotDeleted, mock.Anything).Return(nil).Twice()

	require.NoError(t, svc.Delete(5, 1))
	assert.NoFileExists(t, path)

	// A file that is already gone does not fail the delete.
	require.NoError(t, svc.Delete(5, 1))

	assert.ErrorIs(t, svc.Delete(6, 1), services.ErrForbidden)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestScreenshotService_Delete_StoreFailureKeepsFile(t *testing.T) {
	repo := new(MockScreenshotRepository)
	publisher := new(MockPublisher)
	dir, path := tempUpload(t)
	svc := services.NewScreenshotService(repo, new(MockProcessor), publisher, nil, nil, dir)

	repo.On("GetByID", int64(1)).Return(&models.Screenshot{ID: 1, UserID: 5, Filepath: "uploads/upload.png"}, nil)
	repo.On("Delete", int64(1)).Return(errors.New("disk full")).Once()

	err := svc.Delete(5, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.FileExists(t, path, "the record still points at its file")
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
