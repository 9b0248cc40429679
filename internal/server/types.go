// Package server exposes text recognition over HTTP: image and PDF uploads,
// server-side screen capture, language listing and a WebSocket channel for
// streaming requests.
package server

import (
	"image"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/winocr"
	"github.com/MeKo-Tech/winocr/internal/pdf"
)

// engineInterface defines the methods the HTTP layer needs from the OCR
// engine. *winocr.Client satisfies it.
type engineInterface interface {
	FromBytes(buf []byte, opts ...winocr.Option) (*winocr.Result, error)
	FromImage(img image.Image, opts ...winocr.Option) (*winocr.Result, error)
	FromRect(x, y, width, height int, opts ...winocr.Option) (*winocr.Result, error)
	Languages() ([]winocr.Language, error)
	Close() error
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine        engineInterface
	pdfProcessor  *pdf.Processor
	corsOrigin    string
	maxUploadMB   int64
	timeoutSec    int
	captureEnable bool
	rateLimiter   *RateLimiter
}

// Config holds server configuration.
type Config struct {
	Host          string
	Port          int
	CORSOrigin    string
	MaxUploadMB   int64
	TimeoutSec    int
	CaptureEnable bool
	EngineOptions []winocr.Option
	RateLimit     RateLimitConfig
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	RequestsPerHour   int
	MaxRequestsPerDay int
	MaxDataPerDay     int64
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// LanguagesResponse is the payload of GET /languages.
type LanguagesResponse struct {
	Languages []winocr.Language `json:"languages"`
	Count     int               `json:"count"`
}

// OCRResponse wraps a recognition result or an error.
type OCRResponse struct {
	Success bool           `json:"success"`
	Result  *winocr.Result `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// BatchImage is one element of a batch recognition request. Data is
// base64-encoded in JSON.
type BatchImage struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// BatchRequest is the payload of POST /ocr/batch.
type BatchRequest struct {
	Images []BatchImage `json:"images"`
}

// BatchResult holds the outcome for one image of a batch request.
type BatchResult struct {
	Name    string         `json:"name"`
	Success bool           `json:"success"`
	Result  *winocr.Result `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// BatchResponse is the payload answering POST /ocr/batch.
type BatchResponse struct {
	Results   []BatchResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// NewServer creates a server backed by the platform OCR engine.
func NewServer(config Config) (*Server, error) {
	engine := winocr.NewClient(config.EngineOptions...)
	return newServerWithEngine(engine, config), nil
}

func newServerWithEngine(engine engineInterface, config Config) *Server {
	s := &Server{
		engine:        engine,
		pdfProcessor:  pdf.NewProcessor(engine),
		corsOrigin:    config.CORSOrigin,
		maxUploadMB:   config.MaxUploadMB,
		timeoutSec:    config.TimeoutSec,
		captureEnable: config.CaptureEnable,
	}

	if config.RateLimit.Enabled {
		s.rateLimiter = NewRateLimiter(config.RateLimit)
	}

	return s
}

// Close releases the engine resources.
func (s *Server) Close() error {
	if s.engine != nil {
		return s.engine.Close()
	}
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/languages", s.corsMiddleware(s.languagesHandler))
	mux.HandleFunc("/ocr/image", s.corsMiddleware(s.rateLimitMiddleware(s.ocrImageHandler)))
	mux.HandleFunc("/ocr/pdf", s.corsMiddleware(s.rateLimitMiddleware(s.ocrPdfHandler)))
	mux.HandleFunc("/ocr/batch", s.corsMiddleware(s.rateLimitMiddleware(s.ocrBatchHandler)))
	mux.HandleFunc("/ocr/screen", s.corsMiddleware(s.rateLimitMiddleware(s.ocrScreenHandler)))
	mux.HandleFunc("/ocr/ws", s.ocrWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
