//go:build !cgo || noopencv

package opencv

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"image-upscaler/internal/algorithms"
	"image-upscaler/internal/models"
	"image-upscaler/internal/upscale"
)

var _ upscale.Runtime = (*Runtime)(nil)

// Runtime is the placeholder compiled without OpenCV.
type Runtime struct{}

func NewRuntime(*logrus.Logger) *Runtime {
	return &Runtime{}
}

func (rt *Runtime) Available() error {
	return fmt.Errorf("built without OpenCV: %w", upscale.ErrRuntimeUnavailable)
}

func (rt *Runtime) Version() string {
	return ""
}

func (rt *Runtime) Load(models.Descriptor, string, int) (upscale.Model, error) {
	return nil, rt.Available()
}

// Interpolator falls back to the pure-Go cubic kernel.
func Interpolator() algorithms.Interpolator {
	return algorithms.Default()
}

// Lanczos4Interpolator falls back to the pure-Go Lanczos kernel.
func Lanczos4Interpolator() algorithms.Interpolator {
	return algorithms.MustGet("lanczos")
}
