package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-upscaler/internal/core"
)

func gradient(w, h int) *core.Image {
	img := core.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetBGR(x, y, uint8(x*255/w), uint8(y*255/h), 128)
		}
	}
	return img
}

func TestRegisteredInterpolators(t *testing.T) {
	assert.Equal(t, []string{"cubic", "lanczos", "linear", "nearest"}, Names())
	assert.Equal(t, "cubic", Default().Name())

	_, ok := Get("bogus")
	assert.False(t, ok)

	_, err := Resize("bogus", gradient(2, 2), 4, 4)
	assert.Error(t, err)
}

func TestResizeDimensions(t *testing.T) {
	src := gradient(10, 7)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			out, err := Resize(name, src, 30, 21)
			require.NoError(t, err)
			assert.Equal(t, 30, out.Width())
			assert.Equal(t, 21, out.Height())
			require.NoError(t, core.ValidateImage(out))
		})
	}
}

func TestResizePreservesChannelOrder(t *testing.T) {
	src := core.NewImage(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetBGR(x, y, 200, 100, 10)
		}
	}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			out, err := Resize(name, src, 12, 12)
			require.NoError(t, err)
			b, g, r := out.BGRAt(6, 6)
			assert.InDelta(t, 200, int(b), 2)
			assert.InDelta(t, 100, int(g), 2)
			assert.InDelta(t, 10, int(r), 2)
		})
	}
}

func TestResizeIdentityCopies(t *testing.T) {
	src := gradient(5, 5)
	out, err := Default().Resize(src, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)

	out.SetBGR(0, 0, 1, 1, 1)
	assert.NotEqual(t, src.Pix[:3], out.Pix[:3])
}

func TestResizeInvalidTarget(t *testing.T) {
	src := gradient(5, 5)

	_, err := Default().Resize(src, 0, 5)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Default().Resize(src, core.MaxDimension+1, 5)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Default().Resize(core.NewImage(0, 0), 5, 5)
	assert.ErrorIs(t, err, core.ErrInvalidImage)
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		num, den     int
		wantW, wantH int
	}{
		{name: "integer", w: 100, h: 100, num: 3, den: 1, wantW: 300, wantH: 300},
		{name: "residual ratio", w: 400, h: 400, num: 6, den: 4, wantW: 600, wantH: 600},
		{name: "floors", w: 56, h: 40, num: 3, den: 8, wantW: 21, wantH: 15},
		{name: "two thirds stays exact", w: 300, h: 9, num: 2, den: 3, wantW: 200, wantH: 6},
		{name: "identity", w: 9, h: 4, num: 4, den: 4, wantW: 9, wantH: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ScaledSize(tt.w, tt.h, tt.num, tt.den)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestThumbnail(t *testing.T) {
	out, err := Thumbnail(gradient(400, 200), 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Width())
	assert.Equal(t, 50, out.Height())

	small := gradient(20, 10)
	out, err = Thumbnail(small, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, small.Pix, out.Pix)

	_, err = Thumbnail(small, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidSize)
}
