package upscale

import (
	"image-upscaler/internal/core"
	"image-upscaler/internal/models"
)

// Runtime executes super-resolution models.
type Runtime interface {
	// Available probes the execution capability. A non-nil result
	// (normally wrapping ErrRuntimeUnavailable) skips every model step.
	Available() error

	// Load reads the weight file at path and binds it to the model family
	// described by desc at the given scale.
	Load(desc models.Descriptor, path string, scale int) (Model, error)
}

// Model is a loaded network bound to a family and scale.
type Model interface {
	// Upsample applies the network. The result is nominally scale times
	// larger than the input in both dimensions.
	Upsample(img *core.Image) (*core.Image, error)

	Close() error
}

// unavailableRuntime is used when no runtime was configured.
type unavailableRuntime struct{}

func (unavailableRuntime) Available() error { return ErrRuntimeUnavailable }

func (unavailableRuntime) Load(models.Descriptor, string, int) (Model, error) {
	return nil, ErrRuntimeUnavailable
}
