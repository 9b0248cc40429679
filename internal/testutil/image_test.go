package testutil

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTextImageConfig(t *testing.T) {
	config := DefaultTextImageConfig()
	assert.Equal(t, "Sample Text", config.Text)
	assert.Equal(t, MediumSize, config.Size)
	assert.Equal(t, color.White, config.Background)
	assert.Equal(t, color.Black, config.Foreground)
	assert.InDelta(t, 0.0, config.Rotation, 0.0001)
	assert.False(t, config.Multiline)
}

func TestGenerateTextImage(t *testing.T) {
	config := DefaultTextImageConfig()
	config.Text = "Test"
	config.Size = SmallSize

	img := GenerateTextImage(config)
	require.NotNil(t, img)

	bounds := img.Bounds()
	assert.Equal(t, SmallSize.Width, bounds.Dx())
	assert.Equal(t, SmallSize.Height, bounds.Dy())

	// Text pixels should darken the white background somewhere.
	dark := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r < 0x8000 && g < 0x8000 && b < 0x8000 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "rendered text should produce dark pixels")
}

func TestGenerateTextImageMultiline(t *testing.T) {
	config := DefaultTextImageConfig()
	config.Text = "one two three four five six seven"
	config.Multiline = true

	img := GenerateTextImage(config)
	require.NotNil(t, img)
	assert.Equal(t, MediumSize.Width, img.Bounds().Dx())
}

func TestGenerateTextImageRotated(t *testing.T) {
	config := DefaultTextImageConfig()
	config.Size = ImageSize{Width: 200, Height: 100}
	config.Rotation = 90

	img := GenerateTextImage(config)
	require.NotNil(t, img)

	// A 90 degree rotation swaps the dimensions.
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestWrapWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		perLine  int
		expected []string
	}{
		{"empty", "", 3, []string{""}},
		{"single word", "hello", 3, []string{"hello"}},
		{"exact fit", "a b c", 3, []string{"a b c"}},
		{"wraps", "a b c d e", 2, []string{"a b", "c d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, wrapWords(tt.text, tt.perLine))
		})
	}
}

func TestCreateTestImage(t *testing.T) {
	img := CreateTestImage(64, 32, color.White)
	require.NotNil(t, img)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestCreateTestImageWithText(t *testing.T) {
	img := CreateTestImageWithText("Hello", 160, 60)
	require.NotNil(t, img)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestWriteTextImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.png")

	require.NoError(t, WriteTextImage(path, "Hello World", 200, 80))
	require.True(t, FileExists(path))

	img := LoadImage(t, path)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestSaveAndLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.png")

	src := CreateTestImage(40, 20, color.Black)
	SaveImage(t, src, path)

	img := LoadImage(t, path)
	assert.Equal(t, src.Bounds(), img.Bounds())
}
