package batch

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/MeKo-Tech/winocr"
	"github.com/MeKo-Tech/winocr/internal/common"
)

// Recognizer is the recognition surface batch processing needs.
// *winocr.Client satisfies it.
type Recognizer interface {
	FromFile(path string, opts ...winocr.Option) (*winocr.Result, error)
}

// Process discovers the image files named by paths (files or directories) and
// recognizes them over a worker pool. Individual file failures are recorded
// per file, not returned: the batch always runs to completion.
func Process(rec Recognizer, paths []string, config *Config) (*Result, error) {
	files, err := discoverImageFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}

	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	memBefore := common.GetMemoryStats()
	timer := common.NewNamedTimer("batch")
	results := processParallel(rec, files, workers, config.EngineOptions)
	duration := timer.Stop()

	return &Result{
		Files:       results,
		Duration:    duration,
		WorkerCount: workers,
		Memory:      common.GetMemoryStats().Delta(memBefore),
	}, nil
}
