package batch

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessFileUnsupported(t *testing.T) {
	rec := newFakeRecognizer()
	res := processFile(rec, "notes.txt", nil)

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "unsupported image format")
	assert.Empty(t, rec.calls)
}

func TestProcessFileRecords(t *testing.T) {
	rec := newFakeRecognizer()
	res := processFile(rec, "scan.png", nil)

	require.NoError(t, res.Err)
	assert.Equal(t, "scan.png", res.Path)
	require.NotNil(t, res.Result)
	assert.Equal(t, "sample", res.Result.Text)
	assert.Equal(t, []string{"scan.png"}, rec.calls)
}

func TestProcessParallelUsesWorkers(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		p := filepath.Join(dir, name)
		writeTestPNG(t, p)
		paths = append(paths, p)
	}

	rec := newFakeRecognizer()
	rec.delay = 20 * time.Millisecond

	results := processParallel(rec, paths, 4, nil)

	assert.Len(t, results, 4)
	assert.Len(t, rec.calls, 4)
	// With 4 workers and a 20ms call, at least two must have overlapped
	assert.Greater(t, rec.maxBusy, 1)
}

func TestProcessParallelSingleWorkerSerial(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		p := filepath.Join(dir, name)
		writeTestPNG(t, p)
		paths = append(paths, p)
	}

	rec := newFakeRecognizer()
	rec.delay = time.Millisecond

	results := processParallel(rec, paths, 1, nil)

	assert.Len(t, results, 3)
	assert.Equal(t, 1, rec.maxBusy)
}
