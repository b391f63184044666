// Package tesseract recognizes text in images with the Tesseract OCR engine.
//
// It needs the Tesseract and Leptonica libraries at build and run time, which
// is why it lives apart from the pipeline package.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "eng"

// Engine runs one Tesseract client per recognition.
type Engine struct {
	languages []string
}

// New creates an Engine for the given Tesseract language codes.
func New(languages ...string) *Engine {
	if len(languages) == 0 {
		languages = []string{DefaultLanguage}
	}
	return &Engine{languages: languages}
}

type recognition struct {
	text string
	err  error
}

// Recognize returns the text found in the image at path. Tesseract itself
// cannot be interrupted, so when ctx ends first the call returns ctx.Err()
// and the client finishes in the background.
func (e *Engine) Recognize(ctx context.Context, path string) (string, error) {
	done := make(chan recognition, 1)
	go func() {
		text, err := e.recognize(path)
		done <- recognition{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("ocr of %s aborted: %w", path, ctx.Err())
	case r := <-done:
		return r.text, r.err
	}
}

func (e *Engine) recognize(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("failed to set ocr language: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("failed to load image for ocr: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr failed: %w", err)
	}
	return text, nil
}
