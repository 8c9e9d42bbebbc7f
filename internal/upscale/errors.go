package upscale

import "errors"

// Sentinel errors for the resolution pipeline.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrInvalidArgument indicates a caller contract violation: a
	// non-positive scale or a malformed image. It is the only error
	// Upscale returns.
	ErrInvalidArgument = errors.New("upscale: invalid argument")

	// ErrRuntimeUnavailable indicates the model-execution capability is
	// absent from this build or disabled by configuration.
	ErrRuntimeUnavailable = errors.New("upscale: model runtime unavailable")

	// ErrModelNotFound indicates no weight file exists for the requested
	// scale nor for any model's default scale.
	ErrModelNotFound = errors.New("upscale: no model weights found")

	// ErrModelExecution indicates a weight file was found but loading or
	// inference failed.
	ErrModelExecution = errors.New("upscale: model execution failed")
)
