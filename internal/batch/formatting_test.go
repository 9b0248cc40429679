package batch

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/winocr"
)

func sampleFiles() []FileResult {
	return []FileResult{
		{
			Path: "a.png",
			Result: &winocr.Result{
				Text: "Hello World",
				Lines: []winocr.Line{{
					Text: "Hello World",
					Words: []winocr.Word{
						{Text: "Hello", BoundingRect: winocr.Rect{X: 0, Y: 0, Width: 40, Height: 12}},
						{Text: "World", BoundingRect: winocr.Rect{X: 44, Y: 0, Width: 42, Height: 12}},
					},
				}},
			},
			Duration: 12 * time.Millisecond,
		},
		{
			Path:     "b.png",
			Err:      errors.New("recognition failed for b.png: decode error"),
			Duration: 3 * time.Millisecond,
		},
	}
}

func TestFormatText(t *testing.T) {
	out, err := formatBatchResults(sampleFiles(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "# a.png")
	assert.Contains(t, out, "Hello World")
	assert.Contains(t, out, "# b.png")
	assert.Contains(t, out, "ERROR:")
}

func TestFormatJSON(t *testing.T) {
	out, err := formatBatchResults(sampleFiles(), "json")
	require.NoError(t, err)

	var report struct {
		Images []struct {
			File       string         `json:"file"`
			OCR        *winocr.Result `json:"ocr"`
			Error      string         `json:"error"`
			DurationMs int64          `json:"duration_ms"`
		} `json:"images"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	require.Len(t, report.Images, 2)
	assert.Equal(t, "a.png", report.Images[0].File)
	require.NotNil(t, report.Images[0].OCR)
	assert.Equal(t, "Hello World", report.Images[0].OCR.Text)
	assert.Empty(t, report.Images[0].Error)

	assert.Equal(t, "b.png", report.Images[1].File)
	assert.Nil(t, report.Images[1].OCR)
	assert.Contains(t, report.Images[1].Error, "decode error")
}

func TestFormatCSV(t *testing.T) {
	out, err := formatBatchResults(sampleFiles(), "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)

	// Header + two words of a.png + placeholder row for b.png
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"file", "line", "word", "x", "y", "width", "height", "text"}, rows[0])
	assert.Equal(t, "a.png", rows[1][0])
	assert.Equal(t, "Hello", rows[1][7])
	assert.Equal(t, "World", rows[2][7])
	assert.Equal(t, "b.png", rows[3][0])
	assert.Empty(t, rows[3][7])
}

func TestFormatCSVEmptyResult(t *testing.T) {
	files := []FileResult{{Path: "blank.png", Result: &winocr.Result{}}}
	out, err := formatBatchResults(files, "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "blank.png", rows[1][0])
}

func TestFormatDefaultsToText(t *testing.T) {
	out, err := formatBatchResults(sampleFiles(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "# a.png")
}
