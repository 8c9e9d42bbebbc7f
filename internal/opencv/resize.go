//go:build cgo && !noopencv

package opencv

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"image-upscaler/internal/algorithms"
	"image-upscaler/internal/core"
)

const (
	// stepFactor shrinks each intermediate pass when downscaling by more
	// than 2x; maxSteps bounds the number of passes.
	stepFactor = 0.6
	maxSteps   = 15
)

// Resizer is an interpolator backed by gocv.Resize.
type Resizer struct {
	name  string
	flags gocv.InterpolationFlags

	// stepped reduces large downscales in several area-averaging passes
	// before the final resize.
	stepped bool
}

// Interpolator returns the OpenCV cubic resizer.
func Interpolator() algorithms.Interpolator {
	return Resizer{name: InterpolatorName, flags: gocv.InterpolationCubic}
}

// Lanczos4Interpolator returns the OpenCV Lanczos4 resizer with stepped
// downscaling.
func Lanczos4Interpolator() algorithms.Interpolator {
	return Resizer{name: Lanczos4InterpolatorName, flags: gocv.InterpolationLanczos4, stepped: true}
}

func (r Resizer) Name() string {
	return r.name
}

func (r Resizer) Resize(src *core.Image, width, height int) (*core.Image, error) {
	if err := algorithms.ValidateTarget(src, width, height); err != nil {
		return nil, err
	}

	mat, err := toMat(src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	current := mat
	if r.stepped {
		reduced, err := stepDown(mat, width, height)
		if err != nil {
			return nil, err
		}
		defer reduced.Close()
		current = reduced
	}

	dst := gocv.NewMat()
	defer dst.Close()
	if err := gocv.Resize(current, &dst, image.Pt(width, height), 0, 0, r.flags); err != nil {
		return nil, err
	}
	return fromMat(dst)
}

// stepDown shrinks src by stepFactor per pass while it is more than twice
// the target in either dimension. The returned Mat is always a new copy.
func stepDown(src gocv.Mat, width, height int) (gocv.Mat, error) {
	current := src.Clone()
	w, h := current.Cols(), current.Rows()

	for step := 0; (w > width*2 || h > height*2) && step < maxSteps; step++ {
		nextW := int(math.Max(float64(w)*stepFactor, float64(width)))
		nextH := int(math.Max(float64(h)*stepFactor, float64(height)))
		if nextW >= w && nextH >= h {
			break
		}

		next := gocv.NewMat()
		if err := gocv.Resize(current, &next, image.Pt(nextW, nextH), 0, 0, gocv.InterpolationArea); err != nil {
			next.Close()
			current.Close()
			return gocv.NewMat(), err
		}
		current.Close()
		current = next
		w, h = nextW, nextH
	}

	return current, nil
}
