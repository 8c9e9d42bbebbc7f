// Core image buffer shared by every upscaling strategy
package core

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Channels is the number of interleaved channels in an Image.
const Channels = 3

// MaxDimension bounds both input and output sizes to prevent memory issues.
const MaxDimension = 32768

// ErrInvalidImage reports a nil, empty or inconsistent image buffer.
var ErrInvalidImage = errors.New("core: invalid image")

// Image is a 3-channel, 8-bit pixel matrix stored in B, G, R order.
//
// It satisfies image.Image and draw.Image; At and Set translate between the
// BGR byte layout and color.RGBA so that generic resamplers never see the
// channels swapped.
type Image struct {
	// Pix holds the pixels. The pixel at (x, y) starts at
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewImage allocates a zeroed width x height image.
func NewImage(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{
		Pix:    make([]uint8, width*height*Channels),
		Stride: width * Channels,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// FromBytes wraps an existing tightly packed BGR buffer without copying.
func FromBytes(width, height int, pix []uint8) (*Image, error) {
	img := &Image{
		Pix:    pix,
		Stride: width * Channels,
		Rect:   image.Rect(0, 0, width, height),
	}
	if err := ValidateImage(img); err != nil {
		return nil, err
	}
	return img, nil
}

func (img *Image) Width() int  { return img.Rect.Dx() }
func (img *Image) Height() int { return img.Rect.Dy() }

// ColorModel implements image.Image.
func (img *Image) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (img *Image) Bounds() image.Rectangle { return img.Rect }

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (img *Image) PixOffset(x, y int) int {
	return (y-img.Rect.Min.Y)*img.Stride + (x-img.Rect.Min.X)*Channels
}

// At implements image.Image.
func (img *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return color.RGBA{}
	}
	i := img.PixOffset(x, y)
	return color.RGBA{R: img.Pix[i+2], G: img.Pix[i+1], B: img.Pix[i], A: 0xff}
}

// Set implements draw.Image. Alpha is discarded.
func (img *Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return
	}
	r, g, b, _ := c.RGBA()
	i := img.PixOffset(x, y)
	img.Pix[i] = uint8(b >> 8)
	img.Pix[i+1] = uint8(g >> 8)
	img.Pix[i+2] = uint8(r >> 8)
}

// BGRAt returns the raw channel values at (x, y).
func (img *Image) BGRAt(x, y int) (b, g, r uint8) {
	i := img.PixOffset(x, y)
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// SetBGR stores raw channel values at (x, y).
func (img *Image) SetBGR(x, y int, b, g, r uint8) {
	i := img.PixOffset(x, y)
	img.Pix[i] = b
	img.Pix[i+1] = g
	img.Pix[i+2] = r
}

// Clone returns a deep, tightly packed copy anchored at the origin.
func (img *Image) Clone() *Image {
	w, h := img.Width(), img.Height()
	out := NewImage(w, h)
	for y := 0; y < h; y++ {
		src := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], img.Pix[src:src+w*Channels])
	}
	return out
}

// Bytes returns the pixels as a tightly packed BGR slice.
func (img *Image) Bytes() []uint8 {
	if img.Rect.Min == (image.Point{}) && img.Stride == img.Width()*Channels &&
		len(img.Pix) == img.Stride*img.Height() {
		return img.Pix
	}
	return img.Clone().Pix
}

// ValidateImage checks an image buffer for basic requirements
func ValidateImage(img *Image) error {
	if img == nil {
		return fmt.Errorf("image is nil: %w", ErrInvalidImage)
	}

	w, h := img.Width(), img.Height()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d: %w", w, h, ErrInvalidImage)
	}

	if w > MaxDimension || h > MaxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d): %w", w, h, MaxDimension, ErrInvalidImage)
	}

	if img.Stride < w*Channels {
		return fmt.Errorf("stride %d too small for width %d: %w", img.Stride, w, ErrInvalidImage)
	}

	if need := (h-1)*img.Stride + w*Channels; len(img.Pix) < need {
		return fmt.Errorf("pixel buffer holds %d bytes, need %d: %w", len(img.Pix), need, ErrInvalidImage)
	}

	return nil
}
