package server

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/MeKo-Tech/winocr"
)

// fakeEngine is a configurable engineInterface implementation for testing.
type fakeEngine struct {
	mu sync.Mutex

	result    *winocr.Result
	err       error
	languages []winocr.Language
	langErr   error

	bytesCalls int
	imageCalls int
	rectCalls  int
	lastRect   [4]int
	lastOpts   int
	closed     bool
}

func (f *fakeEngine) FromBytes(buf []byte, opts ...winocr.Option) (*winocr.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bytesCalls++
	f.lastOpts = len(opts)
	return f.result, f.err
}

func (f *fakeEngine) FromImage(img image.Image, opts ...winocr.Option) (*winocr.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageCalls++
	f.lastOpts = len(opts)
	return f.result, f.err
}

func (f *fakeEngine) FromRect(x, y, width, height int, opts ...winocr.Option) (*winocr.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rectCalls++
	f.lastRect = [4]int{x, y, width, height}
	f.lastOpts = len(opts)
	return f.result, f.err
}

func (f *fakeEngine) Languages() ([]winocr.Language, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.languages, f.langErr
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// sampleResult returns a canned recognition result.
func sampleResult() *winocr.Result {
	return &winocr.Result{
		Text:      "Hello World",
		TextAngle: 0,
		Lines: []winocr.Line{{
			Text: "Hello World",
			Words: []winocr.Word{
				{Text: "Hello", BoundingRect: winocr.Rect{X: 10, Y: 10, Width: 40, Height: 12}},
				{Text: "World", BoundingRect: winocr.Rect{X: 55, Y: 10, Width: 42, Height: 12}},
			},
		}},
		Language:    "en-US",
		ImageWidth:  120,
		ImageHeight: 40,
	}
}

// newTestServer builds a server around a fake engine with default limits.
func newTestServer(engine engineInterface) *Server {
	return newServerWithEngine(engine, Config{
		CORSOrigin:    "*",
		MaxUploadMB:   10,
		TimeoutSec:    30,
		CaptureEnable: true,
	})
}

// createTestImage creates a simple test image.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			r := byte(x % 256)
			g := byte(y % 256)
			img.Set(x, y, color.RGBA{r, g, 0, 255})
		}
	}
	return img
}

// encodeImageToPNG encodes an image to PNG bytes.
func encodeImageToPNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := png.Encode(&buf, img)
	return buf.Bytes(), err
}

// createMultipartFormRequest creates a multipart form request uploading data
// under the given field name.
func createMultipartFormRequest(
	target, field string,
	data []byte,
	filename string,
	extraFields map[string]string,
) (*http.Request, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err = part.Write(data); err != nil {
		return nil, err
	}

	for key, value := range extraFields {
		if err = writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}

	if err = writer.Close(); err != nil {
		return nil, err
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req, nil
}
