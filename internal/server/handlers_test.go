package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/winocr"
)

// The HTTP layer must remain compatible with the real client.
var _ engineInterface = (*winocr.Client)(nil)

func TestHealthHandler(t *testing.T) {
	s := newTestServer(&fakeEngine{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)

	_, err := time.Parse(time.RFC3339, resp.Time)
	assert.NoError(t, err)
}

func TestHealthHandlerMethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeEngine{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLanguagesHandler(t *testing.T) {
	engine := &fakeEngine{
		languages: []winocr.Language{
			{Tag: "en-US", DisplayName: "English (United States)"},
			{Tag: "de-DE", DisplayName: "Deutsch (Deutschland)"},
		},
	}
	s := newTestServer(engine)

	req := httptest.NewRequest(http.MethodGet, "/languages", nil)
	rec := httptest.NewRecorder()
	s.languagesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp LanguagesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Languages, 2)
	assert.Equal(t, "en-US", resp.Languages[0].Tag)
}

func TestLanguagesHandlerEngineUnavailable(t *testing.T) {
	s := newTestServer(&fakeEngine{langErr: winocr.ErrPlatformUnsupported})

	req := httptest.NewRequest(http.MethodGet, "/languages", nil)
	rec := httptest.NewRecorder()
	s.languagesHandler(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestOCRImageHandler(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	s := newTestServer(engine)

	imageData, err := encodeImageToPNG(createTestImage(100, 50))
	require.NoError(t, err)

	req, err := createMultipartFormRequest("/ocr/image", "image", imageData, "test.png", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ocrImageHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp OCRResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "Hello World", resp.Result.Text)
	assert.Equal(t, 1, engine.bytesCalls)
}

func TestOCRImageHandlerFormats(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		contentType string
		contains    string
	}{
		{name: "text", format: "text", contentType: "text/plain; charset=utf-8", contains: "Hello World"},
		{name: "csv", format: "csv", contentType: "text/csv", contains: "line,word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeEngine{result: sampleResult()})

			imageData, err := encodeImageToPNG(createTestImage(40, 20))
			require.NoError(t, err)

			req, err := createMultipartFormRequest("/ocr/image", "image", imageData, "test.png",
				map[string]string{"format": tt.format})
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			s.ocrImageHandler(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestOCRImageHandlerOptions(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	s := newTestServer(engine)

	imageData, err := encodeImageToPNG(createTestImage(40, 20))
	require.NoError(t, err)

	req, err := createMultipartFormRequest("/ocr/image", "image", imageData, "test.png",
		map[string]string{"language": "de-DE", "scale": "2.0", "grayscale": "true"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ocrImageHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, engine.lastOpts)
}

func TestOCRImageHandlerNoFile(t *testing.T) {
	s := newTestServer(&fakeEngine{result: sampleResult()})

	req, err := createMultipartFormRequest("/ocr/image", "file", []byte("data"), "test.png", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ocrImageHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp OCRResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "image")
}

func TestOCRImageHandlerMethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeEngine{})

	req := httptest.NewRequest(http.MethodGet, "/ocr/image", nil)
	rec := httptest.NewRecorder()
	s.ocrImageHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestOCRImageHandlerEngineErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "image too large",
			err:        &winocr.ImageTooLargeError{Width: 40000, Height: 20, Max: 10000},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "unsupported language",
			err:        &winocr.UnsupportedLanguageError{Tag: "zz-ZZ"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "platform unsupported",
			err:        winocr.ErrPlatformUnsupported,
			wantStatus: http.StatusNotImplemented,
		},
		{
			name:       "generic failure",
			err:        errors.New("decode failed"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeEngine{err: tt.err})

			imageData, err := encodeImageToPNG(createTestImage(40, 20))
			require.NoError(t, err)

			req, err := createMultipartFormRequest("/ocr/image", "image", imageData, "test.png", nil)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			s.ocrImageHandler(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var resp OCRResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestOCRBatchHandler(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	s := newTestServer(engine)

	body, err := json.Marshal(BatchRequest{Images: []BatchImage{
		{Name: "a.png", Data: []byte("fake-a")},
		{Name: "b.png", Data: []byte("fake-b")},
	}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ocr/batch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ocrBatchHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp BatchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 0, resp.Failed)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "a.png", resp.Results[0].Name)
	assert.True(t, resp.Results[0].Success)
	assert.Equal(t, 2, engine.bytesCalls)
}

func TestOCRBatchHandlerAllFail(t *testing.T) {
	s := newTestServer(&fakeEngine{err: errors.New("no text found")})

	body, err := json.Marshal(BatchRequest{Images: []BatchImage{
		{Name: "a.png", Data: []byte("fake")},
	}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ocr/batch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ocrBatchHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp BatchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 1)
	assert.False(t, resp.Results[0].Success)
	assert.Contains(t, resp.Results[0].Error, "no text found")
}

func TestOCRBatchHandlerBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{not json"},
		{name: "empty list", body: `{"images": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeEngine{})

			req := httptest.NewRequest(http.MethodPost, "/ocr/batch", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			s.ocrBatchHandler(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestOCRScreenHandler(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	s := newTestServer(engine)

	body := `{"x": 10, "y": 20, "width": 300, "height": 200}`
	req := httptest.NewRequest(http.MethodPost, "/ocr/screen", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ocrScreenHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, engine.rectCalls)
	assert.Equal(t, [4]int{10, 20, 300, 200}, engine.lastRect)
}

func TestOCRScreenHandlerDisabled(t *testing.T) {
	s := newServerWithEngine(&fakeEngine{}, Config{CORSOrigin: "*", MaxUploadMB: 10})

	body := `{"x": 0, "y": 0, "width": 100, "height": 100}`
	req := httptest.NewRequest(http.MethodPost, "/ocr/screen", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ocrScreenHandler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOCRScreenHandlerBadBody(t *testing.T) {
	s := newTestServer(&fakeEngine{})

	req := httptest.NewRequest(http.MethodPost, "/ocr/screen", strings.NewReader("{bad"))
	rec := httptest.NewRecorder()
	s.ocrScreenHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOCRPdfHandlerInvalidPDF(t *testing.T) {
	s := newTestServer(&fakeEngine{result: sampleResult()})

	req, err := createMultipartFormRequest("/ocr/pdf", "pdf", []byte("not a pdf"), "broken.pdf", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ocrPdfHandler(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp OCRResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
}

func TestOCRPdfHandlerNoFile(t *testing.T) {
	s := newTestServer(&fakeEngine{})

	req, err := createMultipartFormRequest("/ocr/pdf", "image", []byte("data"), "x.pdf", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ocrPdfHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServerClose(t *testing.T) {
	engine := &fakeEngine{}
	s := newTestServer(engine)

	require.NoError(t, s.Close())
	assert.True(t, engine.closed)
}

// Benchmark tests.
func BenchmarkServer_HealthHandler(b *testing.B) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	b.ResetTimer()
	for range b.N {
		w := httptest.NewRecorder()
		s.healthHandler(w, req)
	}
}

func BenchmarkFormatResultJSON(b *testing.B) {
	result := sampleResult()

	b.ResetTimer()
	for range b.N {
		_, _ = winocr.FormatResult(result, "json")
	}
}
