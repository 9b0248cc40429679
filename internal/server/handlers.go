package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MeKo-Tech/winocr"
	"github.com/MeKo-Tech/winocr/internal/capture"
	"github.com/MeKo-Tech/winocr/internal/pdf"
	"github.com/MeKo-Tech/winocr/internal/version"
)

const (
	formatText = "text"
	formatCSV  = "csv"

	defaultMaxUploadMB = 50
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// languagesHandler returns the installed recognizer languages.
func (s *Server) languagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	langs, err := s.engine.Languages()
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	response := LanguagesResponse{
		Languages: langs,
		Count:     len(langs),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding languages response: %v\n", err)
	}
}

// ocrImageHandler processes image OCR requests.
func (s *Server) ocrImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	imageData, ok := s.readUpload(w, r, "image")
	if !ok {
		return
	}

	opts := requestOptions(r)

	start := time.Now()
	res, err := s.engine.FromBytes(imageData, opts...)
	observeRecognition("image", time.Since(start), err)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	// Determine output format: default json; allow 'format' in query or form
	switch requestFormat(r) {
	case formatCSV:
		text, err := winocr.ToCSV(res)
		if err != nil {
			s.writeErrorResponse(w, fmt.Sprintf("formatting failed: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(text))
	case formatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(res.PlainText()))
	default:
		s.writeResult(w, res)
	}
}

// ocrPdfHandler processes PDF OCR requests.
func (s *Server) ocrPdfHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pdfData, ok := s.readUpload(w, r, "pdf")
	if !ok {
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = "upload.pdf"
	}
	pageRange := r.FormValue("pages")

	processor := s.pdfProcessor
	if password := r.FormValue("password"); password != "" {
		processor = pdf.NewProcessorWithConfig(s.engine, pdf.Config{
			Credentials: &pdf.Credentials{UserPassword: password},
		})
	}

	start := time.Now()
	doc, err := processor.ProcessBytes(pdfData, name, pageRange)
	observeRecognition("pdf", time.Since(start), err)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	if requestFormat(r) == formatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(pdf.ToPlainText(doc)))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	obj := struct {
		OCR *pdf.DocumentResult `json:"ocr"`
	}{OCR: doc}
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding OCR PDF response: %v\n", err)
	}
}

// ocrBatchHandler processes a JSON list of base64 images. Individual failures
// do not abort the batch.
func (s *Server) ocrBatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Images) == 0 {
		s.writeErrorResponse(w, "No images provided", http.StatusBadRequest)
		return
	}

	opts := requestOptions(r)
	response := BatchResponse{Results: make([]BatchResult, 0, len(req.Images))}

	for _, img := range req.Images {
		item := BatchResult{Name: img.Name}

		start := time.Now()
		res, err := s.engine.FromBytes(img.Data, opts...)
		observeRecognition("batch", time.Since(start), err)
		if err != nil {
			item.Error = err.Error()
			response.Failed++
		} else {
			item.Success = true
			item.Result = res
			response.Succeeded++
		}

		response.Results = append(response.Results, item)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding batch response: %v\n", err)
	}
}

// screenRequest is the payload of POST /ocr/screen.
type screenRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ocrScreenHandler captures a region of the server's screen and recognizes
// it. Disabled unless capture is enabled in the configuration.
func (s *Server) ocrScreenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.captureEnable {
		s.writeErrorResponse(w, "Screen capture disabled", http.StatusForbidden)
		return
	}

	var req screenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	opts := requestOptions(r)

	start := time.Now()
	res, err := s.engine.FromRect(req.X, req.Y, req.Width, req.Height, opts...)
	observeRecognition("screen", time.Since(start), err)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeResult(w, res)
}

// readUpload parses the multipart form and reads the named file field. On
// failure it writes the error response and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	maxBytes := s.maxUploadBytes()

	// Set content length limit
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		// Distinguish body-too-large from generic parse error
		if strings.Contains(strings.ToLower(err.Error()), "body too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("No %s file provided", field), http.StatusBadRequest)
		return nil, false
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read uploaded data", http.StatusInternalServerError)
		return nil, false
	}

	return data, true
}

func (s *Server) maxUploadBytes() int64 {
	mb := s.maxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return mb * 1024 * 1024
}

// requestFormat reads the requested output format from form or query values.
func requestFormat(r *http.Request) string {
	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}
	return format
}

// requestOptions builds per-request engine options from form or query values.
func requestOptions(r *http.Request) []winocr.Option {
	var opts []winocr.Option

	if lang := r.FormValue("language"); lang != "" {
		opts = append(opts, winocr.WithLanguage(lang))
	}
	if scale := r.FormValue("scale"); scale != "" {
		if v, err := strconv.ParseFloat(scale, 64); err == nil && v > 0 {
			opts = append(opts, winocr.WithScale(v))
		}
	}
	if gray := r.FormValue("grayscale"); gray == "true" || gray == "1" {
		opts = append(opts, winocr.WithGrayscale())
	}

	return opts
}

func (s *Server) writeResult(w http.ResponseWriter, res *winocr.Result) {
	w.Header().Set("Content-Type", "application/json")
	response := OCRResponse{Success: true, Result: res}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding OCR response: %v\n", err)
	}
}

// writeEngineError maps recognition errors onto HTTP status codes.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var tooLarge *winocr.ImageTooLargeError
	var unsupported *winocr.UnsupportedLanguageError

	switch {
	case errors.As(err, &tooLarge):
		s.writeErrorResponse(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.As(err, &unsupported):
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, winocr.ErrPlatformUnsupported):
		s.writeErrorResponse(w, err.Error(), http.StatusNotImplemented)
	case errors.Is(err, capture.ErrUnsupported), errors.Is(err, capture.ErrWindowNotFound):
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		s.writeErrorResponse(w, fmt.Sprintf("OCR processing failed: %v", err), http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := OCRResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
