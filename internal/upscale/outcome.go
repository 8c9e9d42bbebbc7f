package upscale

import (
	"fmt"
	"time"

	"image-upscaler/internal/core"
)

// Method identifies the strategy that produced an Outcome.
type Method int

const (
	// MethodModel: a model natively serving the requested scale.
	MethodModel Method = iota
	// MethodModelRescaled: a model at its default scale, then interpolated
	// to the requested scale.
	MethodModelRescaled
	// MethodNoRuntime: interpolation because no model runtime exists.
	MethodNoRuntime
	// MethodNoModel: interpolation because no weight file matched.
	MethodNoModel
	// MethodModelFailed: interpolation because loading or inference failed.
	MethodModelFailed
)

func (m Method) String() string {
	switch m {
	case MethodModel:
		return "model"
	case MethodModelRescaled:
		return "model_rescaled"
	case MethodNoRuntime:
		return "no_runtime"
	case MethodNoModel:
		return "no_model"
	case MethodModelFailed:
		return "model_failed"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// Fallback reports whether no model contributed to the result.
func (m Method) Fallback() bool {
	return m >= MethodNoRuntime
}

// Fallback labels.
const (
	LabelNoRuntime   = "generic interpolation (no model runtime)"
	LabelNoModel     = "generic interpolation (no model found)"
	LabelModelFailed = "generic interpolation (model execution failed)"
)

// Outcome is the result of one Upscale call.
type Outcome struct {
	Image *core.Image

	// Label names the strategy, e.g. "model EDSR x6 (native x4, rescaled)"
	// or "generic interpolation (no model found)".
	Label  string
	Method Method

	// Scale is the requested scale.
	Scale int

	// Model, ModelScale and WeightPath are set whenever a weight file was
	// selected, including when it then failed.
	Model      string
	ModelScale int
	WeightPath string

	// Cause is the absorbed error behind a fallback.
	Cause error

	Duration time.Duration
}

func modelLabel(model string, scale, modelScale int) string {
	if scale == modelScale {
		return fmt.Sprintf("model %s x%d", model, scale)
	}
	return fmt.Sprintf("model %s x%d (native x%d, rescaled)", model, scale, modelScale)
}

func fallbackLabel(m Method) string {
	switch m {
	case MethodNoRuntime:
		return LabelNoRuntime
	case MethodModelFailed:
		return LabelModelFailed
	default:
		return LabelNoModel
	}
}

// Recorder observes outcomes, e.g. to export metrics.
type Recorder interface {
	Observe(Outcome)
}

type nopRecorder struct{}

func (nopRecorder) Observe(Outcome) {}
