package pipeline

import (
	"crypto/md5"
	"encoding/hex"
	"image"

	"golang.org/x/image/draw"
)

// DefaultFingerprintSize is the side of the square the image is reduced to.
const DefaultFingerprintSize = 64

// Fingerprint resamples img to a size×size grayscale square and returns the
// MD5 of the raw pixel buffer. Two images share a fingerprint only when their
// normalized renderings are byte-identical.
func Fingerprint(img image.Image, size int) string {
	if size <= 0 {
		size = DefaultFingerprintSize
	}
	gray := image.NewGray(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)
	sum := md5.Sum(gray.Pix)
	return hex.EncodeToString(sum[:])
}
