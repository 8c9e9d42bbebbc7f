//go:build !cgo || noopencv

package opencv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"image-upscaler/internal/algorithms"
	"image-upscaler/internal/models"
	"image-upscaler/internal/upscale"
)

func TestStubRuntimeUnavailable(t *testing.T) {
	rt := NewRuntime(nil)
	assert.ErrorIs(t, rt.Available(), upscale.ErrRuntimeUnavailable)

	_, err := rt.Load(models.Descriptor{Name: "edsr"}, "EDSR_x4.pb", 4)
	assert.ErrorIs(t, err, upscale.ErrRuntimeUnavailable)

	assert.Equal(t, algorithms.DefaultInterpolation, Interpolator().Name())
	assert.Equal(t, "lanczos", Lanczos4Interpolator().Name())

	interp, ok := algorithms.Get(Lanczos4InterpolatorName)
	assert.True(t, ok)
	assert.Equal(t, "lanczos", interp.Name())
}
