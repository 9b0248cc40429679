package utils

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func TestIsSupportedImage(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.png", true},
		{"scan.JPG", true},
		{"capture.bmp", true},
		{"page.tiff", true},
		{"anim.gif", true},
		{"document.pdf", false},
		{"noext", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupportedImage(tt.path), tt.path)
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testImage(64, 32)))
	require.NoError(t, f.Close())

	img, meta, err := LoadImage(path)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, 64, meta.Width)
	assert.Equal(t, 32, meta.Height)
	assert.Equal(t, "png", meta.Format)
	assert.InDelta(t, 2.0, meta.AspectRatio, 1e-9)
	assert.Positive(t, meta.SizeBytes)
}

func TestLoadImageErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "unsupported extension", path: "file.xyz"},
		{name: "missing file", path: filepath.Join(t.TempDir(), "missing.png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadImage(tt.path)
			require.Error(t, err)

			var procErr *ImageProcessingError
			assert.ErrorAs(t, err, &procErr)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := testImage(20, 10)

	buf, err := EncodeBMP(src)
	require.NoError(t, err)
	require.NotEmpty(t, buf)

	img, err := DecodeImageBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestEncodeNilImage(t *testing.T) {
	_, err := EncodeBMP(nil)
	require.Error(t, err)
	_, err = EncodePNG(nil)
	require.Error(t, err)
}

func TestDecodeImageBytesGarbage(t *testing.T) {
	_, err := DecodeImageBytes([]byte("not an image"))
	require.Error(t, err)

	var procErr *ImageProcessingError
	assert.ErrorAs(t, err, &procErr)
	assert.Equal(t, "decode", procErr.Operation)
}

func TestPreprocess(t *testing.T) {
	src := testImage(100, 40)

	t.Run("identity", func(t *testing.T) {
		out := Preprocess(src, false, 0)
		assert.Equal(t, src.Bounds(), out.Bounds())
	})

	t.Run("scale up", func(t *testing.T) {
		out := Preprocess(src, false, 2)
		assert.Equal(t, 200, out.Bounds().Dx())
		assert.Equal(t, 80, out.Bounds().Dy())
	})

	t.Run("scale down", func(t *testing.T) {
		out := Preprocess(src, false, 0.5)
		assert.Equal(t, 50, out.Bounds().Dx())
		assert.Equal(t, 20, out.Bounds().Dy())
	})

	t.Run("grayscale", func(t *testing.T) {
		out := Preprocess(src, true, 0)
		r, g, b, _ := out.At(10, 10).RGBA()
		assert.Equal(t, r, g)
		assert.Equal(t, g, b)
	})

	t.Run("nil image", func(t *testing.T) {
		assert.Nil(t, Preprocess(nil, true, 2))
	})
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	src := testImage(16, 16)

	for _, name := range []string{"out.png", "out.jpg", "out.bmp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, SaveImage(src, path), name)

		img, _, err := LoadImage(path)
		require.NoError(t, err, name)
		assert.Equal(t, 16, img.Bounds().Dx(), name)
	}

	err := SaveImage(src, filepath.Join(dir, "out.xyz"))
	require.Error(t, err)
}

func TestBatchLoadImages(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")

	f, err := os.Create(good)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testImage(8, 8)))
	require.NoError(t, f.Close())

	results := BatchLoadImages([]string{good, filepath.Join(dir, "missing.png")})
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Img)
	assert.Error(t, results[1].Err)
}
