// Package pipeline turns a stored upload into a processed screenshot record.
//
// Processing reads the image metadata, computes a content fingerprint over a
// normalized grayscale rendering, flags an earlier upload with the same
// fingerprint, runs OCR and derives tags from the recognized text. Any
// failure in metadata extraction or OCR aborts processing; duplicates never do.
package pipeline
