package core

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageChannelOrder(t *testing.T) {
	img := NewImage(2, 1)
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	assert.Equal(t, []uint8{30, 20, 10}, img.Pix[0:3], "bytes must be stored as B, G, R")

	b, g, r := img.BGRAt(0, 0)
	assert.Equal(t, [3]uint8{30, 20, 10}, [3]uint8{b, g, r})

	img.SetBGR(1, 0, 1, 2, 3)
	assert.Equal(t, color.RGBA{R: 3, G: 2, B: 1, A: 255}, img.At(1, 0))
}

func TestImageAtOutOfBounds(t *testing.T) {
	img := NewImage(1, 1)
	assert.Equal(t, color.RGBA{}, img.At(5, 5))
	img.Set(5, 5, color.White)
	assert.Equal(t, []uint8{0, 0, 0}, img.Pix)
}

func TestCloneIsDeep(t *testing.T) {
	img := NewImage(3, 2)
	img.SetBGR(2, 1, 7, 8, 9)

	clone := img.Clone()
	require.Equal(t, img.Pix, clone.Pix)

	clone.SetBGR(2, 1, 0, 0, 0)
	b, _, _ := img.BGRAt(2, 1)
	assert.Equal(t, uint8(7), b)
}

func TestBytesRepacksSubImage(t *testing.T) {
	img := NewImage(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetBGR(x, y, uint8(x), uint8(y), 0)
		}
	}

	sub := &Image{Pix: img.Pix[img.PixOffset(1, 1):], Stride: img.Stride, Rect: image.Rect(1, 1, 3, 3)}
	got := sub.Bytes()
	require.Len(t, got, 2*2*Channels)
	assert.Equal(t, []uint8{1, 1, 0, 2, 1, 0, 1, 2, 0, 2, 2, 0}, got)
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name    string
		img     *Image
		wantErr bool
	}{
		{name: "nil", img: nil, wantErr: true},
		{name: "zero size", img: NewImage(0, 0), wantErr: true},
		{name: "zero height", img: NewImage(5, 0), wantErr: true},
		{name: "short buffer", img: &Image{Pix: make([]uint8, 5), Stride: 6, Rect: image.Rect(0, 0, 2, 2)}, wantErr: true},
		{name: "small stride", img: &Image{Pix: make([]uint8, 12), Stride: 3, Rect: image.Rect(0, 0, 2, 2)}, wantErr: true},
		{name: "too wide", img: &Image{Stride: (MaxDimension + 1) * Channels, Rect: image.Rect(0, 0, MaxDimension+1, 1)}, wantErr: true},
		{name: "valid", img: NewImage(2, 3), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(tt.img)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidImage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromBytes(t *testing.T) {
	img, err := FromBytes(2, 1, []uint8{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width())
	assert.Equal(t, 1, img.Height())

	_, err = FromBytes(2, 2, []uint8{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidImage)
}
