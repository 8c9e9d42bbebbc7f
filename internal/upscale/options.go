package upscale

import (
	"github.com/sirupsen/logrus"

	"image-upscaler/internal/algorithms"
	"image-upscaler/internal/models"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegistry replaces the compiled-in model registry.
func WithRegistry(registry *models.Registry) Option {
	return func(r *Resolver) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithRuntime sets the model-execution runtime. Without one every call
// degrades to generic interpolation.
func WithRuntime(runtime Runtime) Option {
	return func(r *Resolver) {
		if runtime != nil {
			r.runtime = runtime
		}
	}
}

// WithInterpolator sets the generic interpolator used for fallbacks and
// scale reconciliation. Defaults to cubic.
func WithInterpolator(interp algorithms.Interpolator) Option {
	return func(r *Resolver) {
		if interp != nil {
			r.interp = interp
		}
	}
}

// WithLogger sets the logger receiving fallback diagnostics.
func WithLogger(logger *logrus.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder registers a Recorder notified of every outcome.
func WithRecorder(recorder Recorder) Option {
	return func(r *Resolver) {
		if recorder != nil {
			r.recorder = recorder
		}
	}
}
