package algorithms

import (
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	"image-upscaler/internal/core"
)

var (
	catmullRom      draw.Interpolator = draw.CatmullRom
	biLinear        draw.Interpolator = draw.BiLinear
	nearestNeighbor draw.Interpolator = draw.NearestNeighbor
)

// Kernel resamples through golang.org/x/image/draw. The BGR buffer is
// converted to RGBA and back so the draw fast paths apply.
type Kernel struct {
	name   string
	interp draw.Interpolator
}

// NewKernel wraps a draw.Interpolator.
func NewKernel(name string, interp draw.Interpolator) *Kernel {
	return &Kernel{name: name, interp: interp}
}

func (k *Kernel) Name() string {
	return k.name
}

func (k *Kernel) Resize(src *core.Image, width, height int) (*core.Image, error) {
	if err := ValidateTarget(src, width, height); err != nil {
		return nil, err
	}

	if width == src.Width() && height == src.Height() {
		return src.Clone(), nil
	}

	rgba := src.ToRGBA()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	k.interp.Scale(dst, dst.Bounds(), rgba, rgba.Bounds(), draw.Src, nil)

	return core.FromImage(dst), nil
}

// Lanczos resamples with github.com/nfnt/resize's Lanczos3 filter.
type Lanczos struct{}

func NewLanczos() *Lanczos {
	return &Lanczos{}
}

func (l *Lanczos) Name() string {
	return "lanczos"
}

func (l *Lanczos) Resize(src *core.Image, width, height int) (*core.Image, error) {
	if err := ValidateTarget(src, width, height); err != nil {
		return nil, err
	}

	if width == src.Width() && height == src.Height() {
		return src.Clone(), nil
	}

	out := resize.Resize(uint(width), uint(height), src.ToRGBA(), resize.Lanczos3)
	return core.FromImage(out), nil
}
