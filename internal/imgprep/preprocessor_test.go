package imgprep

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	applog "nutrilog/internal/log"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func discardLogger() *applog.Logger {
	return applog.New(applog.Config{
		Component: applog.ComponentImgprep,
		Handler:   slog.NewTextHandler(io.Discard, nil),
	})
}

func TestProcessKeepsSmallImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.png")
	writePNG(t, path, solidImage(640, 480, color.NRGBA{R: 200, G: 100, B: 50, A: 255}))

	p := New(0, 0, 0)
	res, err := p.Process(path)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Resized {
		t.Fatalf("640x480 fits inside %dx%d, should not resize", p.MaxWidth, p.MaxHeight)
	}
	if res.Width != 640 || res.Height != 480 {
		t.Fatalf("dimensions changed: %dx%d", res.Width, res.Height)
	}
	if res.SourceFormat != "png" {
		t.Fatalf("format = %q, want png", res.SourceFormat)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.JPEG))
	if err != nil {
		t.Fatalf("output is not a valid jpeg: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Fatalf("jpeg dimensions = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcessShrinksOversizedImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.png")
	writePNG(t, path, solidImage(4000, 2000, color.NRGBA{R: 10, G: 120, B: 30, A: 255}))

	p := New(1920, 1920, 85)
	res, err := p.Process(path)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !res.Resized {
		t.Fatalf("4000x2000 exceeds the budget, should resize")
	}
	// Aspect ratio preserved: 4000x2000 fitted in 1920x1920 is 1920x960.
	if res.Width != 1920 || res.Height != 960 {
		t.Fatalf("resized to %dx%d, want 1920x960", res.Width, res.Height)
	}
	if res.OriginalWidth != 4000 || res.OriginalHeight != 2000 {
		t.Fatalf("original size = %dx%d", res.OriginalWidth, res.OriginalHeight)
	}
}

func TestProcessFlattensTransparencyOntoWhite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alpha.png")
	img := image.NewNRGBA(image.Rect(0, 0, 60, 60))
	// Leave the whole image fully transparent.
	writePNG(t, path, img)

	p := New(0, 0, 95)
	res, err := p.Process(path)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	out, err := jpeg.Decode(bytes.NewReader(res.JPEG))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	r, g, b, _ := out.At(30, 30).RGBA()
	for _, ch := range []uint32{r >> 8, g >> 8, b >> 8} {
		if ch < 240 {
			t.Fatalf("transparent pixel should flatten to white, got rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
		}
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.jpg")
	if err := os.WriteFile(path, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(0, 0, 0).Process(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestProcessMissingFile(t *testing.T) {
	if _, err := New(0, 0, 0).Process(filepath.Join(t.TempDir(), "absent.jpg")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestToBase64(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	uri := ToBase64(data)
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("missing data URI prefix: %q", uri)
	}
	back, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	if !bytes.Equal(back, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestOutputNames(t *testing.T) {
	if got := OutputName("/photos/dinner.png"); got != "dinner_processed.jpg" {
		t.Fatalf("OutputName = %q", got)
	}
	if got := Base64Name("lunch.jpeg"); got != "lunch_base64.txt" {
		t.Fatalf("Base64Name = %q", got)
	}
}

func TestParseMaxSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{in: "1920x1080", w: 1920, h: 1080},
		{in: "800x800", w: 800, h: 800},
		{in: "1920", wantErr: true},
		{in: "0x100", wantErr: true},
		{in: "axb", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		w, h, err := ParseMaxSize(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMaxSize(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMaxSize(%q): %v", tt.in, err)
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("ParseMaxSize(%q) = %dx%d, want %dx%d", tt.in, w, h, tt.w, tt.h)
		}
	}
}

func TestBatchProcessesDirectory(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writePNG(t, filepath.Join(in, "a.png"), solidImage(100, 100, color.NRGBA{R: 255, A: 255}))
	writePNG(t, filepath.Join(in, "b.png"), solidImage(100, 100, color.NRGBA{G: 255, A: 255}))
	if err := os.WriteFile(filepath.Join(in, "broken.jpg"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := New(0, 0, 0).Batch(context.Background(), in, out, 2, discardLogger())
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if res.Processed != 2 {
		t.Fatalf("processed = %d, want 2", res.Processed)
	}
	if len(res.Failed) != 1 || res.Failed[0] != "broken.jpg" {
		t.Fatalf("failed = %v, want [broken.jpg]", res.Failed)
	}
	for _, name := range []string{"a_processed.jpg", "b_processed.jpg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
	}
}

func TestBatchMissingInputDir(t *testing.T) {
	_, err := New(0, 0, 0).Batch(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir(), 1, discardLogger())
	if err == nil {
		t.Fatalf("expected error for missing input directory")
	}
}
