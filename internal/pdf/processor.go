package pdf

import (
	"fmt"
	"image"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/MeKo-Tech/winocr"
)

// Recognizer is the recognition surface the processor needs. *winocr.Client
// satisfies it.
type Recognizer interface {
	FromImage(img image.Image, opts ...winocr.Option) (*winocr.Result, error)
}

// Config controls document processing.
type Config struct {
	// MaxWorkers bounds the number of pages processed concurrently.
	// 0 means one worker per CPU.
	MaxWorkers int

	// Credentials are used to decrypt password-protected documents.
	Credentials *Credentials
}

// Processor runs text recognition over the images embedded in PDF documents.
type Processor struct {
	rec Recognizer
	cfg Config
}

// NewProcessor creates a processor with default configuration.
func NewProcessor(rec Recognizer) *Processor {
	return NewProcessorWithConfig(rec, Config{})
}

// NewProcessorWithConfig creates a processor with the given configuration.
func NewProcessorWithConfig(rec Recognizer, cfg Config) *Processor {
	return &Processor{rec: rec, cfg: cfg}
}

// ProcessFile recognizes text in the images of a PDF file, optionally
// restricted to a page selection like "1-3,7".
func (p *Processor) ProcessFile(filename, pages string) (*DocumentResult, error) {
	start := time.Now()

	working, err := Decrypt(filename, p.cfg.Credentials)
	if err != nil {
		return nil, err
	}
	if working != filename {
		defer func() { _ = RemoveDecrypted(working) }()
	}

	extractStart := time.Now()
	pageImages, err := ExtractImages(working, pages)
	if err != nil {
		return nil, err
	}
	extractionNs := time.Since(extractStart).Nanoseconds()

	pageResults, recognitionNs := p.processPages(pageImages)

	return &DocumentResult{
		Filename:   filename,
		TotalPages: len(pageResults),
		Pages:      pageResults,
		Processing: ProcessingInfo{
			ExtractionNs:  extractionNs,
			RecognitionNs: recognitionNs,
			TotalNs:       time.Since(start).Nanoseconds(),
		},
	}, nil
}

// ProcessBytes recognizes text in an in-memory PDF document. The name is
// only used for reporting.
func (p *Processor) ProcessBytes(data []byte, name, pages string) (*DocumentResult, error) {
	tempFile, err := os.CreateTemp("", "winocr-upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tempName := tempFile.Name()
	defer func() { _ = os.Remove(tempName) }()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	result, err := p.ProcessFile(tempName, pages)
	if err != nil {
		return nil, err
	}
	result.Filename = name
	return result, nil
}

// processPages fans page recognition out over a bounded worker pool and
// reassembles the results in page order.
func (p *Processor) processPages(pageImages PageImages) ([]PageResult, int64) {
	pageList := make([]int, 0, len(pageImages))
	for n := range pageImages {
		pageList = append(pageList, n)
	}
	sort.Ints(pageList)

	workers := p.cfg.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pageList) {
		workers = len(pageList)
	}
	if workers < 1 {
		workers = 1
	}

	type out struct {
		page PageResult
		ns   int64
	}

	jobs := make(chan int, len(pageList))
	results := make(chan out, len(pageList))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pageNum := range jobs {
				page, ns := p.processPage(pageNum, pageImages[pageNum])
				results <- out{page: page, ns: ns}
			}
		}()
	}

	for _, n := range pageList {
		jobs <- n
	}
	close(jobs)

	go func() { wg.Wait(); close(results) }()

	byPage := make(map[int]PageResult, len(pageList))
	var recognitionNs int64
	for r := range results {
		byPage[r.page.PageNumber] = r.page
		recognitionNs += r.ns
	}

	pages := make([]PageResult, 0, len(pageList))
	for _, n := range pageList {
		pages = append(pages, byPage[n])
	}
	return pages, recognitionNs
}

// processPage recognizes every image of a single page. Failures of
// individual images (undecodable content, dimensions over the engine cap)
// are recorded per image instead of aborting the document.
func (p *Processor) processPage(pageNum int, images []image.Image) (PageResult, int64) {
	page := PageResult{
		PageNumber: pageNum,
		Images:     make([]ImageResult, 0, len(images)),
	}

	var recognitionNs int64
	for i, img := range images {
		bounds := img.Bounds()
		ir := ImageResult{
			ImageIndex: i,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		}
		if ir.Width > page.Width {
			page.Width = ir.Width
		}
		if ir.Height > page.Height {
			page.Height = ir.Height
		}

		start := time.Now()
		res, err := p.rec.FromImage(img)
		recognitionNs += time.Since(start).Nanoseconds()
		if err != nil {
			ir.Error = err.Error()
		} else {
			ir.OCR = res
		}

		page.Images = append(page.Images, ir)
	}

	return page, recognitionNs
}
