package models_test

import (
	"testing"
	"time"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestScreenshot_Matches(t *testing.T) {
	s := &models.Screenshot{
		ExtractedText: "Uncaught TypeError in Chrome",
		Tags:          []string{"error", "browser"},
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"typeerror", true},
		{"CHROME", true},
		{"brow", true},
		{"ERROR", true},
		{"firefox", false},
		{"terminal", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, s.Matches(tc.query), "query %q", tc.query)
	}
}

func TestScreenshot_NewerThan(t *testing.T) {
	now := time.Now()
	older := &models.Screenshot{ID: 1, CreatedAt: now.Add(-time.Minute)}
	newer := &models.Screenshot{ID: 2, CreatedAt: now}
	sameTime := &models.Screenshot{ID: 3, CreatedAt: now}

	assert.True(t, newer.NewerThan(older))
	assert.False(t, older.NewerThan(newer))
	assert.True(t, sameTime.NewerThan(newer), "ties are broken by id")
}

func TestProcessedResult_ToScreenshot(t *testing.T) {
	r := &models.ProcessedResult{
		Filename:      "shot.png",
		Filepath:      "uploads/1-abc.png",
		ExtractedText: "hello",
		Tags:          []string{"general"},
		Hash:          "d41d8cd98f00b204e9800998ecf8427e",
		Width:         10,
		Height:        20,
		Size:          300,
		IsDuplicate:   true,
	}

	s := r.ToScreenshot(7)
	assert.Equal(t, int64(7), s.UserID)
	assert.Equal(t, "shot.png", s.Filename)
	assert.Equal(t, "uploads/1-abc.png", s.Filepath)
	assert.Equal(t, r.Hash, s.Fingerprint)
	assert.Equal(t, []string{"general"}, s.Tags)
	assert.Equal(t, 10, s.Width)
	assert.Equal(t, 20, s.Height)
	assert.Equal(t, int64(300), s.Size)
	assert.Zero(t, s.ID)
}
