package pdf

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/winocr"
)

// ImageResult holds the recognition output for a single image embedded in a
// PDF page. When recognition of an individual image fails the error is
// recorded here and processing continues with the rest of the document.
type ImageResult struct {
	ImageIndex int            `json:"image_index"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	OCR        *winocr.Result `json:"ocr,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// PageResult represents recognition results for a single PDF page.
type PageResult struct {
	PageNumber int           `json:"page_number"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Images     []ImageResult `json:"images"`
}

// DocumentResult represents complete recognition results for a PDF document.
type DocumentResult struct {
	Filename   string         `json:"filename"`
	TotalPages int            `json:"total_pages"`
	Pages      []PageResult   `json:"pages"`
	Processing ProcessingInfo `json:"processing"`
}

// ProcessingInfo contains timing information for document processing.
type ProcessingInfo struct {
	ExtractionNs  int64 `json:"extraction_ns"`
	RecognitionNs int64 `json:"recognition_ns"`
	TotalNs       int64 `json:"total_ns"`
}

// Text returns the recognized text of the whole document, pages separated by
// blank lines.
func (d *DocumentResult) Text() string {
	var parts []string
	for _, page := range d.Pages {
		var b strings.Builder
		for _, img := range page.Images {
			if img.OCR == nil {
				continue
			}
			if t := strings.TrimSpace(img.OCR.Text); t != "" {
				if b.Len() > 0 {
					b.WriteString("\n")
				}
				b.WriteString(t)
			}
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}
	return strings.Join(parts, "\n\n")
}

// ToJSON serializes the document result as indented JSON.
func ToJSON(d *DocumentResult) (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling document result: %w", err)
	}
	return string(data), nil
}

// ToPlainText renders a human-readable summary of the document result.
func ToPlainText(d *DocumentResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "File: %s\n", d.Filename)
	fmt.Fprintf(&b, "Pages: %d\n\n", d.TotalPages)

	for _, page := range d.Pages {
		fmt.Fprintf(&b, "Page %d (%dx%d):\n", page.PageNumber, page.Width, page.Height)
		for _, img := range page.Images {
			if img.Error != "" {
				fmt.Fprintf(&b, "  image %d (%dx%d): error: %s\n", img.ImageIndex, img.Width, img.Height, img.Error)
				continue
			}
			if img.OCR == nil {
				continue
			}
			fmt.Fprintf(&b, "  image %d (%dx%d): %d line(s)\n", img.ImageIndex, img.Width, img.Height, len(img.OCR.Lines))
			for _, line := range img.OCR.Lines {
				fmt.Fprintf(&b, "    %s\n", line.Text)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
