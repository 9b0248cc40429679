package batch

import (
	"fmt"
	"sync"

	"github.com/MeKo-Tech/winocr"
	"github.com/MeKo-Tech/winocr/internal/common"
	"github.com/MeKo-Tech/winocr/internal/utils"
)

// processParallel recognizes the files over a fixed worker pool. Results keep
// the input order; every file produces an entry even when it fails.
func processParallel(rec Recognizer, paths []string, workers int, opts []winocr.Option) []FileResult {
	results := make([]FileResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = processFile(rec, paths[i], opts)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// processFile recognizes one file, timing the call.
func processFile(rec Recognizer, path string, opts []winocr.Option) FileResult {
	timer := common.NewTimer()

	if !utils.IsSupportedImage(path) {
		return FileResult{
			Path:     path,
			Err:      fmt.Errorf("unsupported image format: %s", path),
			Duration: timer.Stop(),
		}
	}

	res, err := rec.FromFile(path, opts...)
	if err != nil {
		err = fmt.Errorf("recognition failed for %s: %w", path, err)
	}

	return FileResult{
		Path:     path,
		Result:   res,
		Err:      err,
		Duration: timer.Stop(),
	}
}
