//go:build cgo && !noopencv

package opencv

import (
	"fmt"

	"gocv.io/x/gocv"

	"image-upscaler/internal/core"
)

// toMat copies a BGR buffer into an 8UC3 Mat. OpenCV's native channel order
// is BGR, so no conversion happens.
func toMat(img *core.Image) (gocv.Mat, error) {
	if err := core.ValidateImage(img); err != nil {
		return gocv.NewMat(), err
	}

	view, err := gocv.NewMatFromBytes(img.Height(), img.Width(), gocv.MatTypeCV8UC3, img.Bytes())
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("creating mat: %w", err)
	}
	defer view.Close()

	return view.Clone(), nil
}

// fromMat copies an 8UC3 Mat back into a BGR buffer.
func fromMat(mat gocv.Mat) (*core.Image, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("mat is empty")
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return nil, fmt.Errorf("unsupported mat type %v, want 8UC3", mat.Type())
	}

	return core.FromBytes(mat.Cols(), mat.Rows(), mat.ToBytes())
}
