// Package batch recognizes text in many image files at once: directory
// discovery, a worker pool over the engine client and aggregate output.
package batch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MeKo-Tech/winocr"
	"github.com/MeKo-Tech/winocr/internal/common"
)

// Config holds all configuration for batch processing.
type Config struct {
	// EngineOptions are applied to every recognition call.
	EngineOptions []winocr.Option

	// Workers bounds the number of files recognized concurrently.
	// 0 means one worker per CPU.
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Output settings
	Format     string
	OutputFile string
	Quiet      bool
	ShowStats  bool
}

// FileResult is the outcome of recognizing one file.
type FileResult struct {
	Path     string
	Result   *winocr.Result
	Err      error
	Duration time.Duration
}

// Result holds the outcome of a batch run.
type Result struct {
	Files       []FileResult
	Duration    time.Duration
	WorkerCount int
	Memory      common.MemoryStats
}

// Succeeded counts the files that recognized without error.
func (r *Result) Succeeded() int {
	n := 0
	for _, f := range r.Files {
		if f.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts the files that errored.
func (r *Result) Failed() int {
	return len(r.Files) - r.Succeeded()
}

// FormatResults renders the batch outcome in the given format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r.Files, format)
}

// SaveResults writes the formatted results to outputFile, or to w when no
// file is configured.
func (r *Result) SaveResults(format, outputFile string, w io.Writer) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Results written to %s\n", outputFile)
		return nil
	}

	_, err = fmt.Fprint(w, output)
	return err
}

// PrintStats writes processing statistics to w.
func (r *Result) PrintStats(w io.Writer) {
	total := len(r.Files)
	avg := time.Duration(0)
	if total > 0 {
		avg = r.Duration / time.Duration(total)
	}
	throughput := 0.0
	if r.Duration > 0 {
		throughput = float64(total) / r.Duration.Seconds()
	}

	_, _ = fmt.Fprintf(w, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(w, "  Total images: %d\n", total)
	_, _ = fmt.Fprintf(w, "  Processed: %d\n", r.Succeeded())
	_, _ = fmt.Fprintf(w, "  Failed: %d\n", r.Failed())
	_, _ = fmt.Fprintf(w, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(w, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(w, "  Avg per image: %v\n", avg.Round(time.Millisecond))
	_, _ = fmt.Fprintf(w, "  Throughput: %.1f images/sec\n", throughput)
	_, _ = fmt.Fprintf(w, "  Memory: %s\n", r.Memory)
}
