// Package imgprep prepares food photos for nutrition analysis: it shrinks
// oversized images, flattens transparency onto white, and re-encodes
// everything as JPEG suitable for upload.
package imgprep

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxWidth  = 1920
	DefaultMaxHeight = 1920
	DefaultQuality   = 85
)

// Preprocessor resizes and re-encodes images within a dimension budget.
type Preprocessor struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// New returns a preprocessor with the given limits. Non-positive values
// fall back to the defaults.
func New(maxWidth, maxHeight, quality int) *Preprocessor {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Preprocessor{MaxWidth: maxWidth, MaxHeight: maxHeight, Quality: quality}
}

// Result describes a processed image.
type Result struct {
	SourcePath     string
	SourceFormat   string
	OriginalWidth  int
	OriginalHeight int
	Width          int
	Height         int
	Resized        bool
	JPEG           []byte
}

// Process reads the image at path and returns the optimized JPEG bytes
// together with size metadata.
func (p *Preprocessor) Process(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	bounds := img.Bounds()
	res := &Result{
		SourcePath:     path,
		SourceFormat:   format,
		OriginalWidth:  bounds.Dx(),
		OriginalHeight: bounds.Dy(),
	}

	// Shrink only; images already inside the budget keep their size.
	if bounds.Dx() > p.MaxWidth || bounds.Dy() > p.MaxHeight {
		img = imaging.Fit(img, p.MaxWidth, p.MaxHeight, imaging.Lanczos)
		res.Resized = true
	}

	img = flatten(img)

	fitted := img.Bounds()
	res.Width = fitted.Dx()
	res.Height = fitted.Dy()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return nil, fmt.Errorf("encode image %s: %w", path, err)
	}
	res.JPEG = buf.Bytes()
	return res, nil
}

// flatten composites the image onto a white background. JPEG has no alpha
// channel, so transparent regions would otherwise come out black.
func flatten(img image.Image) image.Image {
	if isOpaque(img) {
		return img
	}
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// ToBase64 renders JPEG bytes as a data URI ready for an analysis API.
func ToBase64(jpeg []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
}

// OutputName derives the processed filename for an input: photo.png
// becomes photo_processed.jpg.
func OutputName(inputPath string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return stem + "_processed.jpg"
}

// Base64Name derives the base64 text filename for an input.
func Base64Name(inputPath string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return stem + "_base64.txt"
}

// ParseMaxSize parses a WIDTHxHEIGHT string such as "1920x1080".
func ParseMaxSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("invalid max-size %q, want WIDTHxHEIGHT", s)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid max-size %q, dimensions must be positive", s)
	}
	return w, h, nil
}
