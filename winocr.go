// Package winocr exposes the OCR engine built into Windows through plain Go
// calls. Input can come from a byte stream, a file, an in-memory image, or a
// screen capture; output is a flattened text/line/word graph with pixel
// bounding boxes. On other platforms every entry point returns
// ErrPlatformUnsupported.
package winocr

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/MeKo-Tech/winocr/internal/capture"
	"github.com/MeKo-Tech/winocr/internal/utils"
	"github.com/MeKo-Tech/winocr/internal/winrt"
)

// Settings carries the per-call recognition parameters. The zero value means
// user-profile language, default poll interval and no preprocessing.
type Settings struct {
	Language     string
	PollInterval time.Duration
	Grayscale    bool
	Scale        float64
}

func defaultSettings() Settings {
	return Settings{PollInterval: winrt.DefaultPollInterval}
}

func (s Settings) needsPreprocess() bool {
	return s.Grayscale || (s.Scale > 0 && s.Scale != 1)
}

// Option adjusts recognition settings on a client or a single call.
type Option func(*Settings)

// WithLanguage selects the OCR language by BCP-47 tag instead of the user
// profile languages.
func WithLanguage(tag string) Option {
	return func(s *Settings) { s.Language = tag }
}

// WithPollInterval overrides the async status polling period.
func WithPollInterval(d time.Duration) Option {
	return func(s *Settings) { s.PollInterval = d }
}

// WithGrayscale converts the input to grayscale before recognition.
func WithGrayscale() Option {
	return func(s *Settings) { s.Grayscale = true }
}

// WithScale resizes the input by the given factor before recognition.
// Upscaling small captures often improves recognition of small glyphs.
func WithScale(factor float64) Option {
	return func(s *Settings) { s.Scale = factor }
}

// Client owns the lazily created native engine state: activation factories
// and the currently loaded OCR engine. A Client is safe for concurrent use;
// recognition calls are serialized on the native engine. The zero-cost
// constructor never touches the OS; all native setup happens on first use.
type Client struct {
	mu       sync.Mutex
	settings Settings
	native   nativeState
}

// NewClient returns a client with the given default settings applied.
func NewClient(opts ...Option) *Client {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &Client{settings: s}
}

// Close releases the native engine and factory references. The client can be
// used again afterwards; native state is recreated on demand.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeNative()
}

func (c *Client) callSettings(opts []Option) Settings {
	c.mu.Lock()
	s := c.settings
	c.mu.Unlock()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Recognize runs OCR over an encoded image read from r. This is the core
// entry point every convenience constructor funnels into.
func (c *Client) Recognize(r io.Reader, opts ...Option) (*Result, error) {
	s := c.callSettings(opts)
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return c.fromBytes(buf, s)
}

// FromBytes runs OCR over an encoded image held in memory.
func (c *Client) FromBytes(buf []byte, opts ...Option) (*Result, error) {
	return c.fromBytes(buf, c.callSettings(opts))
}

// FromFile runs OCR over an image file. Without preprocessing options the
// file is handed to the native decoder directly.
func (c *Client) FromFile(path string, opts ...Option) (*Result, error) {
	s := c.callSettings(opts)
	if s.needsPreprocess() {
		img, _, err := utils.LoadImage(path)
		if err != nil {
			return nil, err
		}
		return c.fromImage(img, s)
	}
	return c.recognizeFile(path, s)
}

// FromImage runs OCR over a decoded image.
func (c *Client) FromImage(img image.Image, opts ...Option) (*Result, error) {
	return c.fromImage(img, c.callSettings(opts))
}

// FromRect captures the given screen rectangle in virtual-screen coordinates
// and runs OCR over it.
func (c *Client) FromRect(x, y, width, height int, opts ...Option) (*Result, error) {
	img, err := capture.Rect(image.Rect(x, y, x+width, y+height))
	if err != nil {
		return nil, translateCaptureErr(err)
	}
	return c.fromImage(img, c.callSettings(opts))
}

// FromDesktop captures the primary display and runs OCR over it.
func (c *Client) FromDesktop(opts ...Option) (*Result, error) {
	img, err := capture.Desktop()
	if err != nil {
		return nil, translateCaptureErr(err)
	}
	return c.fromImage(img, c.callSettings(opts))
}

// FromWindow captures the client area of the first window whose title
// contains title and runs OCR over it.
func (c *Client) FromWindow(title string, opts ...Option) (*Result, error) {
	img, err := capture.Window(title)
	if err != nil {
		return nil, translateCaptureErr(err)
	}
	return c.fromImage(img, c.callSettings(opts))
}

func (c *Client) fromBytes(buf []byte, s Settings) (*Result, error) {
	if s.needsPreprocess() {
		img, err := utils.DecodeImageBytes(buf)
		if err != nil {
			return nil, err
		}
		return c.fromImage(img, s)
	}
	return c.recognizeBytes(buf, s)
}

func (c *Client) fromImage(img image.Image, s Settings) (*Result, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	img = utils.Preprocess(img, s.Grayscale, s.Scale)
	buf, err := utils.EncodeBMP(img)
	if err != nil {
		return nil, err
	}
	return c.recognizeBytes(buf, s)
}

func translateCaptureErr(err error) error {
	if errors.Is(err, capture.ErrUnsupported) {
		return ErrPlatformUnsupported
	}
	return err
}

var defaultClient = NewClient()

// Default returns the package-level client backing the convenience
// functions.
func Default() *Client {
	return defaultClient
}

// Recognize runs OCR over an encoded image using the default client.
func Recognize(r io.Reader, opts ...Option) (*Result, error) {
	return defaultClient.Recognize(r, opts...)
}

// FromBytes runs OCR over an in-memory encoded image using the default
// client.
func FromBytes(buf []byte, opts ...Option) (*Result, error) {
	return defaultClient.FromBytes(buf, opts...)
}

// FromFile runs OCR over an image file using the default client.
func FromFile(path string, opts ...Option) (*Result, error) {
	return defaultClient.FromFile(path, opts...)
}

// FromImage runs OCR over a decoded image using the default client.
func FromImage(img image.Image, opts ...Option) (*Result, error) {
	return defaultClient.FromImage(img, opts...)
}

// FromRect captures a screen rectangle and runs OCR over it using the
// default client.
func FromRect(x, y, width, height int, opts ...Option) (*Result, error) {
	return defaultClient.FromRect(x, y, width, height, opts...)
}

// FromDesktop captures the primary display and runs OCR over it using the
// default client.
func FromDesktop(opts ...Option) (*Result, error) {
	return defaultClient.FromDesktop(opts...)
}

// FromWindow captures a window by title and runs OCR over it using the
// default client.
func FromWindow(title string, opts ...Option) (*Result, error) {
	return defaultClient.FromWindow(title, opts...)
}

// LoadLanguage makes the given language the active engine on the default
// client.
func LoadLanguage(tag string) error {
	return defaultClient.LoadLanguage(tag)
}

// Languages lists the installed OCR-capable languages using the default
// client.
func Languages() ([]Language, error) {
	return defaultClient.Languages()
}

// MaxDimension returns the engine's maximum supported pixel dimension using
// the default client.
func MaxDimension() (uint32, error) {
	return defaultClient.MaxDimension()
}
