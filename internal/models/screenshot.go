package models

import (
	"strings"
	"time"
)

// Screenshot is one processed upload. The JSON form is also the persisted form.
type Screenshot struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	UserID        int64     `json:"user_id" gorm:"index"`
	Filename      string    `json:"filename" gorm:"type:varchar(255)"`
	Filepath      string    `json:"filepath" gorm:"type:varchar(1024)"`
	ExtractedText string    `json:"extracted_text" gorm:"type:text"`
	Tags          []string  `json:"tags" gorm:"serializer:json;type:text"`
	Fingerprint   string    `json:"perceptual_hash" gorm:"column:fingerprint;index;type:varchar(32)"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}

// Matches reports whether the extracted text or any tag contains query,
// compared case-insensitively.
func (s *Screenshot) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(s.ExtractedText), q) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// NewerThan orders screenshots newest first, breaking timestamp ties by id.
func (s *Screenshot) NewerThan(other *Screenshot) bool {
	if !s.CreatedAt.Equal(other.CreatedAt) {
		return s.CreatedAt.After(other.CreatedAt)
	}
	return s.ID > other.ID
}

// ProcessedResult is what the image pipeline produces for a stored upload.
type ProcessedResult struct {
	Filename      string   `json:"filename"`
	Filepath      string   `json:"filepath"`
	ExtractedText string   `json:"extractedText"`
	Tags          []string `json:"tags"`
	Hash          string   `json:"hash"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Size          int64    `json:"size"`
	IsDuplicate   bool     `json:"isDuplicate"`
	DuplicateOf   *int64   `json:"duplicateOf,omitempty"`
}

// ToScreenshot converts a pipeline result into a record owned by userID.
func (r *ProcessedResult) ToScreenshot(userID int64) *Screenshot {
	return &Screenshot{
		UserID:        userID,
		Filename:      r.Filename,
		Filepath:      r.Filepath,
		ExtractedText: r.ExtractedText,
		Tags:          r.Tags,
		Fingerprint:   r.Hash,
		Width:         r.Width,
		Height:        r.Height,
		Size:          r.Size,
	}
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	ID int64 `json:"id"`
	ProcessedResult
}
