package core

import (
	"image"
	"image/color"
	"image/draw"
)

// FromImage converts any decoded image into a BGR buffer. Alpha is dropped
// without premultiplication against a background.
func FromImage(src image.Image) *Image {
	if s, ok := src.(*Image); ok {
		return s.Clone()
	}

	b := src.Bounds()
	out := NewImage(b.Dx(), b.Dy())

	switch s := src.(type) {
	case *image.RGBA:
		for y := 0; y < b.Dy(); y++ {
			row := s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < b.Dx(); x++ {
				i := x * 4
				out.SetBGR(x, y, row[i+2], row[i+1], row[i])
			}
		}
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			row := s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < b.Dx(); x++ {
				i := x * 4
				out.SetBGR(x, y, row[i+2], row[i+1], row[i])
			}
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				out.SetBGR(x, y, c.B, c.G, c.R)
			}
		}
	}

	return out
}

// ToRGBA converts the buffer into an opaque *image.RGBA anchored at the origin.
func (img *Image) ToRGBA() *image.RGBA {
	w, h := img.Width(), img.Height()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			i, j := src+x*Channels, x*4
			row[j] = img.Pix[i+2]
			row[j+1] = img.Pix[i+1]
			row[j+2] = img.Pix[i]
			row[j+3] = 0xff
		}
	}
	return dst
}

var _ draw.Image = (*Image)(nil)
