package io

import (
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-upscaler/internal/core"
)

func newLoader() *ImageLoader {
	logger, _ := logtest.NewNullLogger()
	return NewImageLoader(logger)
}

func sample() *core.Image {
	img := core.NewImage(6, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.SetBGR(x, y, 200, uint8(40*y), uint8(30*x))
		}
	}
	return img
}

func TestSaveLoadLosslessFormats(t *testing.T) {
	loader := newLoader()

	for _, ext := range []string{".png", ".bmp", ".tiff"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out"+ext)
			require.NoError(t, loader.SaveImage(sample(), path))

			got, err := loader.LoadImage(path)
			require.NoError(t, err)
			assert.Equal(t, sample().Pix, got.Pix, "channel order must survive a round trip")
		})
	}
}

func TestSaveLoadJPEG(t *testing.T) {
	loader := newLoader()
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, loader.SaveImage(sample(), path))

	got, err := loader.LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Width())
	assert.Equal(t, 4, got.Height())
}

func TestUnsupportedFormats(t *testing.T) {
	loader := newLoader()
	dir := t.TempDir()

	_, err := loader.LoadImage(filepath.Join(dir, "in.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBP")

	assert.Error(t, loader.SaveImage(sample(), filepath.Join(dir, "out.webp")))
	assert.Error(t, loader.SaveImage(core.NewImage(0, 0), filepath.Join(dir, "out.png")))

	assert.True(t, IsReadable("a/B.WEBP"))
	assert.False(t, IsWritable("a/b.gif"))
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))

	_, err := newLoader().LoadImage(path)
	assert.Error(t, err)
}
