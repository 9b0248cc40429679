package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/winocr"
)

// formatBatchResults renders the per-file outcomes in the specified format.
func formatBatchResults(files []FileResult, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(files)
	case "csv":
		return formatCSV(files)
	default: // text
		return formatText(files)
	}
}

// batchImageJSON is one entry of the JSON batch report.
type batchImageJSON struct {
	File       string         `json:"file"`
	OCR        *winocr.Result `json:"ocr,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}

// formatJSON renders the outcomes as one JSON document.
func formatJSON(files []FileResult) (string, error) {
	report := struct {
		Images []batchImageJSON `json:"images"`
	}{Images: make([]batchImageJSON, len(files))}

	for i, f := range files {
		entry := batchImageJSON{
			File:       f.Path,
			OCR:        f.Result,
			DurationMs: f.Duration.Milliseconds(),
		}
		if f.Err != nil {
			entry.Error = f.Err.Error()
			entry.OCR = nil
		}
		report.Images[i] = entry
	}

	bts, err := json.MarshalIndent(report, "", "  ")
	return string(bts), err
}

// formatCSV renders per-word rows. Files without words (or with errors) still
// contribute one row so every input stays visible in the report.
func formatCSV(files []FileResult) (string, error) {
	var csvData [][]string
	csvData = append(csvData, []string{"file", "line", "word", "x", "y", "width", "height", "text"})

	for _, f := range files {
		if f.Err != nil || f.Result == nil {
			csvData = append(csvData, []string{f.Path, "", "", "", "", "", "", ""})
			continue
		}
		rows := 0
		for li, line := range f.Result.Lines {
			for wi, word := range line.Words {
				csvData = append(csvData, []string{
					f.Path,
					strconv.Itoa(li),
					strconv.Itoa(wi),
					fmt.Sprintf("%.1f", word.BoundingRect.X),
					fmt.Sprintf("%.1f", word.BoundingRect.Y),
					fmt.Sprintf("%.1f", word.BoundingRect.Width),
					fmt.Sprintf("%.1f", word.BoundingRect.Height),
					word.Text,
				})
				rows++
			}
		}
		if rows == 0 {
			csvData = append(csvData, []string{f.Path, "", "", "", "", "", "", ""})
		}
	}

	var output strings.Builder
	writer := csv.NewWriter(&output)
	for _, row := range csvData {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), nil
}

// formatText renders a per-file plain text report.
func formatText(files []FileResult) (string, error) {
	var output strings.Builder
	for i, f := range files {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("# %s\n", f.Path))
		if f.Err != nil {
			output.WriteString(fmt.Sprintf("ERROR: %v\n", f.Err))
			continue
		}
		if f.Result != nil {
			text := f.Result.PlainText()
			output.WriteString(text)
			if text != "" {
				output.WriteString("\n")
			}
		}
	}
	return output.String(), nil
}
