package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/pipeline"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEngine is a mock implementation of pipeline.Engine
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Recognize(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

// MockFinder is a mock implementation of pipeline.DuplicateFinder
type MockFinder struct {
	mock.Mock
}

func (m *MockFinder) FindByFingerprint(userID int64, fingerprint string) (*models.Screenshot, error) {
	args := m.Called(userID, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Screenshot), args.Error(1)
}

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestFingerprint(t *testing.T) {
	red := solidImage(200, 100, color.RGBA{R: 255, A: 255})
	blue := solidImage(200, 100, color.RGBA{B: 255, A: 255})

	a := pipeline.Fingerprint(red, 64)
	assert.Len(t, a, 32)
	assert.Equal(t, a, pipeline.Fingerprint(red, 64), "deterministic")
	assert.NotEqual(t, a, pipeline.Fingerprint(blue, 64))
	assert.Equal(t, a, pipeline.Fingerprint(red, 0), "non-positive size uses the default")

	tweaked := solidImage(200, 100, color.RGBA{R: 255, A: 255})
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			tweaked.Set(x, y, color.Black)
		}
	}
	assert.NotEqual(t, a, pipeline.Fingerprint(tweaked, 64))
}

func TestProcessor_Process(t *testing.T) {
	path := writePNG(t, solidImage(120, 80, color.RGBA{G: 200, A: 255}))
	info, err := os.Stat(path)
	require.NoError(t, err)

	engine := new(MockEngine)
	finder := new(MockFinder)
	engine.On("Recognize", mock.Anything, path).Return("  function main() {}\n", nil).Once()
	finder.On("FindByFingerprint", int64(7), mock.AnythingOfType("string")).
		Return(nil, fmt.Errorf("lookup: %w", repositories.ErrNotFound)).Once()

	p := pipeline.NewProcessor(engine, finder, pipeline.Config{}, nil)
	result, err := p.Process(context.Background(), 7, path, "my shot.png")
	require.NoError(t, err)

	assert.Equal(t, "my shot.png", result.Filename)
	assert.Equal(t, path, result.Filepath)
	assert.Equal(t, "function main() {}", result.ExtractedText)
	assert.Equal(t, []string{"code"}, result.Tags)
	assert.Equal(t, 120, result.Width)
	assert.Equal(t, 80, result.Height)
	assert.Equal(t, info.Size(), result.Size)
	assert.Len(t, result.Hash, 32)
	assert.False(t, result.IsDuplicate)
	assert.Nil(t, result.DuplicateOf)
	engine.AssertExpectations(t)
	finder.AssertExpectations(t)
}

func TestProcessor_FlagsDuplicate(t *testing.T) {
	path := writePNG(t, solidImage(40, 40, color.White))

	engine := new(MockEngine)
	finder := new(MockFinder)
	engine.On("Recognize", mock.Anything, path).Return("", nil).Once()
	finder.On("FindByFingerprint", int64(1), mock.AnythingOfType("string")).
		Return(&models.Screenshot{ID: 42, Filename: "first.png"}, nil).Once()

	p := pipeline.NewProcessor(engine, finder, pipeline.Config{FingerprintSize: 16}, nil)
	result, err := p.Process(context.Background(), 1, path, "again.png")
	require.NoError(t, err)

	assert.True(t, result.IsDuplicate)
	require.NotNil(t, result.DuplicateOf)
	assert.Equal(t, int64(42), *result.DuplicateOf)
	assert.Equal(t, []string{"general"}, result.Tags)
	assert.Empty(t, result.ExtractedText)
}

func TestProcessor_LookupFailureIsAdvisory(t *testing.T) {
	path := writePNG(t, solidImage(10, 10, color.Black))

	engine := new(MockEngine)
	finder := new(MockFinder)
	engine.On("Recognize", mock.Anything, path).Return("hello", nil).Once()
	finder.On("FindByFingerprint", int64(1), mock.Anything).Return(nil, errors.New("disk on fire")).Once()

	p := pipeline.NewProcessor(engine, finder, pipeline.Config{}, nil)
	result, err := p.Process(context.Background(), 1, path, "x.png")
	require.NoError(t, err)
	assert.False(t, result.IsDuplicate)
}

func TestProcessor_OCRFailure(t *testing.T) {
	path := writePNG(t, solidImage(10, 10, color.Black))

	engine := new(MockEngine)
	finder := new(MockFinder)
	engine.On("Recognize", mock.Anything, path).Return("", errors.New("tesseract crashed")).Once()
	finder.On("FindByFingerprint", int64(1), mock.Anything).Return(nil, repositories.ErrNotFound).Once()

	p := pipeline.NewProcessor(engine, finder, pipeline.Config{}, nil)
	_, err := p.Process(context.Background(), 1, path, "x.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract crashed")
}

func TestProcessor_OCRTimeoutReachesEngine(t *testing.T) {
	path := writePNG(t, solidImage(10, 10, color.Black))

	engine := new(MockEngine)
	finder := new(MockFinder)
	engine.On("Recognize", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), path).Return("ok", nil).Once()
	finder.On("FindByFingerprint", int64(1), mock.Anything).Return(nil, repositories.ErrNotFound).Once()

	p := pipeline.NewProcessor(engine, finder, pipeline.Config{OCRTimeout: time.Minute}, nil)
	_, err := p.Process(context.Background(), 1, path, "x.png")
	require.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestProcessor_UnreadableImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	p := pipeline.NewProcessor(new(MockEngine), new(MockFinder), pipeline.Config{}, nil)
	_, err := p.Process(context.Background(), 1, path, "broken.png")
	assert.Error(t, err)

	_, err = p.Process(context.Background(), 1, filepath.Join(t.TempDir(), "missing.png"), "missing.png")
	assert.Error(t, err)
}

func TestProcessor_RejectsOversizedImage(t *testing.T) {
	path := writePNG(t, image.NewGray(image.Rect(0, 0, 200, 100)))

	engine := new(MockEngine)
	finder := new(MockFinder)
	p := pipeline.NewProcessor(engine, finder, pipeline.Config{MaxPixels: 200*100 - 1}, nil)

	_, err := p.Process(context.Background(), 1, path, "huge.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrImageTooLarge)
	engine.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
	finder.AssertNotCalled(t, "FindByFingerprint", mock.Anything, mock.Anything)

	// Exactly at the cap is accepted.
	engine.On("Recognize", mock.Anything, path).Return("", nil).Once()
	finder.On("FindByFingerprint", int64(1), mock.Anything).Return(nil, repositories.ErrNotFound).Once()
	p = pipeline.NewProcessor(engine, finder, pipeline.Config{MaxPixels: 200 * 100}, nil)
	result, err := p.Process(context.Background(), 1, path, "fits.png")
	require.NoError(t, err)
	assert.Equal(t, 200, result.Width)
}
