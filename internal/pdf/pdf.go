// Package pdf extracts embedded images from PDF documents and runs text
// recognition over them, aggregating per-page results.
package pdf

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageImages maps 1-based page numbers to the images embedded on that page.
type PageImages map[int][]image.Image

// ExtractImages extracts the embedded images of a PDF file, optionally
// restricted to a page selection like "1-3,7". An empty selection means all
// pages.
func ExtractImages(filename, pages string) (PageImages, error) {
	selected, err := parsePageSelection(pages)
	if err != nil {
		return nil, fmt.Errorf("invalid page selection %q: %w", pages, err)
	}

	tempDir, err := os.MkdirTemp("", "winocr-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	if err := api.ExtractImagesFile(filename, tempDir, selected, nil); err != nil {
		return nil, fmt.Errorf("extracting images from %s: %w", filename, err)
	}

	return collectPageImages(tempDir)
}

// PageCount returns the number of pages in a PDF file.
func PageCount(filename string) (int, error) {
	n, err := api.PageCountFile(filename)
	if err != nil {
		return 0, fmt.Errorf("reading page count of %s: %w", filename, err)
	}
	return n, nil
}

// collectPageImages walks an extraction directory and groups the decoded
// images by page number. pdfcpu names extracted files <base>_<page>_<id>.<ext>.
func collectPageImages(dir string) (PageImages, error) {
	result := make(PageImages)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		pageNum, err := pageNumberFromName(info.Name())
		if err != nil {
			return nil
		}

		img, err := decodeImageFile(path)
		if err != nil {
			// Extracted object in a format we cannot decode, skip it.
			return nil
		}

		result[pageNum] = append(result[pageNum], img)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting extracted images: %w", err)
	}

	return result, nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from our own temp extraction dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	return img, err
}

// pageNumberFromName parses the page number out of a pdfcpu extraction
// filename. The page number is the second-to-last underscore-separated field.
func pageNumberFromName(name string) (int, error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return 0, errors.New("not an extracted image file")
	}

	pageNum, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil || pageNum < 1 {
		return 0, errors.New("no page number in filename")
	}
	return pageNum, nil
}

// parsePageSelection expands a selection string like "1-3,7" into the
// individual page tokens pdfcpu expects. Empty input selects all pages.
func parsePageSelection(pages string) ([]string, error) {
	if strings.TrimSpace(pages) == "" {
		return nil, nil
	}

	var out []string
	for _, token := range strings.Split(pages, ",") {
		expanded, err := expandPageToken(strings.TrimSpace(token))
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func expandPageToken(token string) ([]string, error) {
	if before, after, found := strings.Cut(token, "-"); found {
		start, err := strconv.Atoi(strings.TrimSpace(before))
		if err != nil {
			return nil, fmt.Errorf("invalid start page %q", before)
		}
		end, err := strconv.Atoi(strings.TrimSpace(after))
		if err != nil {
			return nil, fmt.Errorf("invalid end page %q", after)
		}
		if start < 1 || start > end {
			return nil, fmt.Errorf("invalid page range %q", token)
		}
		out := make([]string, 0, end-start+1)
		for i := start; i <= end; i++ {
			out = append(out, strconv.Itoa(i))
		}
		return out, nil
	}

	page, err := strconv.Atoi(token)
	if err != nil || page < 1 {
		return nil, fmt.Errorf("invalid page number %q", token)
	}
	return []string{token}, nil
}
