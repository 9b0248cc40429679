//go:build windows

package winocr

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/winocr/internal/testutil"
)

// newEngineClient returns a client backed by the platform engine, skipping the
// test when the engine cannot be activated (Server Core, stripped-down SKUs,
// or no language packs installed).
func newEngineClient(t *testing.T, opts ...Option) *Client {
	t.Helper()

	c := NewClient(opts...)
	if _, err := c.MaxDimension(); err != nil {
		_ = c.Close()
		t.Skipf("OCR engine not available: %v", err)
	}

	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestMaxDimension(t *testing.T) {
	c := newEngineClient(t)

	maxDim, err := c.MaxDimension()
	require.NoError(t, err)
	assert.Positive(t, maxDim)
}

func TestLanguages(t *testing.T) {
	c := newEngineClient(t)

	langs, err := c.Languages()
	require.NoError(t, err)
	require.NotEmpty(t, langs, "an activatable engine implies at least one installed language")

	for _, lang := range langs {
		assert.NotEmpty(t, lang.Tag)
		assert.NotEmpty(t, lang.DisplayName)
	}
}

func TestRecognizeRenderedText(t *testing.T) {
	// The builtin test font is small, so scale the capture up before handing
	// it to the engine.
	c := newEngineClient(t, WithScale(4))

	img := testutil.CreateTestImageWithText("HELLO", 200, 60)

	result, err := c.FromImage(img)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Contains(t, strings.ToUpper(result.Text), "HELLO")
	require.NotEmpty(t, result.Lines)
	require.NoError(t, ValidateResult(result))

	for _, word := range result.Words() {
		assert.NotEmpty(t, word.Text)
		assert.GreaterOrEqual(t, word.BoundingRect.X, 0.0)
		assert.GreaterOrEqual(t, word.BoundingRect.Y, 0.0)
	}

	assert.Positive(t, result.Processing.RecognitionNs)
	assert.GreaterOrEqual(t, result.Processing.TotalNs, result.Processing.RecognitionNs)
}

func TestRecognizeBlankImage(t *testing.T) {
	c := newEngineClient(t)

	result, err := c.FromImage(image.NewRGBA(image.Rect(0, 0, 64, 64)))
	require.NoError(t, err)
	assert.Empty(t, result.Lines)
	assert.Empty(t, strings.TrimSpace(result.Text))
}

func TestImageTooLarge(t *testing.T) {
	c := newEngineClient(t)

	maxDim, err := c.MaxDimension()
	require.NoError(t, err)
	if maxDim > 1<<15 {
		t.Skipf("engine cap %d too large to allocate a test image", maxDim)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(maxDim)+1, 4))

	_, err = c.FromImage(img)

	var tooLarge *ImageTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, maxDim+1, tooLarge.Width)
	assert.Equal(t, maxDim, tooLarge.Max)
}

func TestLoadLanguageUnsupported(t *testing.T) {
	c := newEngineClient(t)

	err := c.LoadLanguage("zz-ZZ")

	var unsupported *UnsupportedLanguageError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "zz-ZZ", unsupported.Tag)

	// A rejected load must not tear down the working engine.
	_, err = c.FromImage(testutil.CreateTestImage(32, 32, color.White))
	assert.NoError(t, err)
}

func TestLoadLanguageRepeat(t *testing.T) {
	c := newEngineClient(t)

	langs, err := c.Languages()
	require.NoError(t, err)
	require.NotEmpty(t, langs)

	tag := langs[0].Tag
	require.NoError(t, c.LoadLanguage(tag))

	loaded := c.native.engine
	require.NotNil(t, loaded)

	// Reloading the active tag must not rebuild the engine.
	require.NoError(t, c.LoadLanguage(tag))
	assert.Same(t, loaded, c.native.engine)
	require.NoError(t, c.LoadLanguage(strings.ToUpper(tag)))
	assert.Same(t, loaded, c.native.engine)
}
