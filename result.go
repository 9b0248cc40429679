package winocr

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Rect is an axis-aligned bounding box in image pixel coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Word is a single recognized word with its bounding box.
type Word struct {
	Text         string `json:"text"`
	BoundingRect Rect   `json:"bounding_rect"`
}

// Line is one recognized line of text in reading order.
type Line struct {
	Text  string `json:"text"`
	Words []Word `json:"words"`
}

// Result is the flattened output of one recognition pass. Everything is
// copied out of the native result graph before it is released, so a Result
// stays valid indefinitely.
type Result struct {
	Text        string  `json:"text"`
	TextAngle   float64 `json:"text_angle"`
	Lines       []Line  `json:"lines"`
	Language    string  `json:"language,omitempty"`
	ImageWidth  int     `json:"image_width"`
	ImageHeight int     `json:"image_height"`
	Processing  struct {
		RecognitionNs int64 `json:"recognition_ns"`
		TotalNs       int64 `json:"total_ns"`
	} `json:"processing"`
}

// Words returns every recognized word, line by line in reading order.
func (r *Result) Words() []Word {
	n := 0
	for _, l := range r.Lines {
		n += len(l.Words)
	}
	words := make([]Word, 0, n)
	for _, l := range r.Lines {
		words = append(words, l.Words...)
	}
	return words
}

// PlainText joins the line texts with newlines, skipping empty lines.
func (r *Result) PlainText() string {
	lines := make([]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		if t := strings.TrimSpace(l.Text); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

// ToJSON serializes a result to pretty JSON.
func ToJSON(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToCSV exports per-word structured data as CSV with header.
func ToCSV(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"line", "word", "x", "y", "width", "height", "text"})
	for li, l := range res.Lines {
		for wi, word := range l.Words {
			row := []string{
				strconv.Itoa(li),
				strconv.Itoa(wi),
				fmt.Sprintf("%.1f", word.BoundingRect.X),
				fmt.Sprintf("%.1f", word.BoundingRect.Y),
				fmt.Sprintf("%.1f", word.BoundingRect.Width),
				fmt.Sprintf("%.1f", word.BoundingRect.Height),
				word.Text,
			}
			_ = w.Write(row)
		}
	}
	w.Flush()
	return buf.String(), nil
}

// FormatResult renders a result in one of the supported output formats:
// "text", "json" or "csv".
func FormatResult(res *Result, format string) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	switch strings.ToLower(format) {
	case "", "text":
		return res.PlainText(), nil
	case "json":
		return ToJSON(res)
	case "csv":
		return ToCSV(res)
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// ValidateResult performs consistency checks on a result: word boxes must be
// non-negative and fall within the image bounds when those are known.
func ValidateResult(res *Result) error {
	if res == nil {
		return errors.New("nil result")
	}
	for li, l := range res.Lines {
		for wi, word := range l.Words {
			b := word.BoundingRect
			if b.Width < 0 || b.Height < 0 {
				return fmt.Errorf("line %d word %d has negative size", li, wi)
			}
			if b.X < 0 || b.Y < 0 {
				return fmt.Errorf("line %d word %d has negative coords", li, wi)
			}
			if res.ImageWidth > 0 && b.X+b.Width > float64(res.ImageWidth) {
				return fmt.Errorf("line %d word %d exceeds image width", li, wi)
			}
			if res.ImageHeight > 0 && b.Y+b.Height > float64(res.ImageHeight) {
				return fmt.Errorf("line %d word %d exceeds image height", li, wi)
			}
		}
	}
	return nil
}
