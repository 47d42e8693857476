package imgprep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	applog "nutrilog/internal/log"
)

// DefaultBatchWorkers bounds how many images are processed at once.
const DefaultBatchWorkers = 4

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".gif":  true,
}

// BatchResult summarizes a directory run.
type BatchResult struct {
	Processed int
	Failed    []string
}

// Batch processes every supported image in inputDir and writes the
// optimized JPEGs to outputDir. Individual failures are logged and
// collected; they do not stop the remaining files.
func (p *Preprocessor) Batch(ctx context.Context, inputDir, outputDir string, workers int, logger *applog.Logger) (*BatchResult, error) {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", inputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	res := &BatchResult{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			in := filepath.Join(inputDir, name)
			out := filepath.Join(outputDir, OutputName(name))
			if err := p.processTo(in, out); err != nil {
				logger.Warn("image failed", applog.FieldPath, in, applog.FieldError, err)
				mu.Lock()
				res.Failed = append(res.Failed, name)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			res.Processed++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	sort.Strings(res.Failed)
	return res, nil
}

func (p *Preprocessor) processTo(inputPath, outputPath string) error {
	r, err := p.Process(inputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, r.JPEG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}
