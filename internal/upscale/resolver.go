// Package upscale picks and applies the best available super-resolution
// strategy for a requested scale.
//
// Resolution order for Upscale(img, scale):
//
//  1. no model runtime            -> cubic interpolation
//  2. model supporting scale      -> that model
//  3. any model at default scale  -> that model, then interpolate to scale
//  4. nothing on disk             -> cubic interpolation
//  5. load or inference failure   -> cubic interpolation
//
// Only caller contract violations are returned as errors; every environment
// or model failure degrades to a simpler strategy.
package upscale

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"image-upscaler/internal/algorithms"
	"image-upscaler/internal/core"
	"image-upscaler/internal/models"
)

// DefaultModelsDir is the weights directory used when none is configured.
const DefaultModelsDir = "models"

// Resolver owns the models directory and is otherwise stateless: weight
// files are looked up and loaded fresh on every call, so a Resolver is safe
// for concurrent use.
type Resolver struct {
	modelsDir string
	registry  *models.Registry
	runtime   Runtime
	interp    algorithms.Interpolator
	logger    *logrus.Logger
	recorder  Recorder
}

// Match is a weight file selected by Find.
type Match struct {
	Descriptor models.Descriptor
	Path       string

	// Scale is the scale the model runs at: the requested scale for an
	// exact match, otherwise the model's default scale.
	Scale int
	Exact bool
}

// New creates a Resolver reading weights from modelsDir.
func New(modelsDir string, opts ...Option) *Resolver {
	if modelsDir == "" {
		modelsDir = DefaultModelsDir
	}

	r := &Resolver{
		modelsDir: modelsDir,
		registry:  models.Default(),
		runtime:   unavailableRuntime{},
		interp:    algorithms.Default(),
		logger:    logrus.StandardLogger(),
		recorder:  nopRecorder{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ModelsDir returns the configured weights directory.
func (r *Resolver) ModelsDir() string {
	return r.modelsDir
}

// Registry returns the model registry searched by Find.
func (r *Resolver) Registry() *models.Registry {
	return r.registry
}

// Find searches the models directory, in registry priority order, first for
// a model natively supporting scale and then for any model at its default
// scale. It returns ErrModelNotFound when neither search succeeds.
func (r *Resolver) Find(scale int) (Match, error) {
	if scale <= 0 {
		return Match{}, fmt.Errorf("scale %d must be positive: %w", scale, ErrInvalidArgument)
	}

	for _, desc := range r.registry.ForScale(scale) {
		if path, ok := r.weightPath(desc, scale); ok {
			return Match{Descriptor: desc, Path: path, Scale: scale, Exact: true}, nil
		}
	}

	for _, desc := range r.registry.Descriptors() {
		if path, ok := r.weightPath(desc, desc.DefaultScale); ok {
			return Match{
				Descriptor: desc,
				Path:       path,
				Scale:      desc.DefaultScale,
				Exact:      desc.DefaultScale == scale,
			}, nil
		}
	}

	return Match{}, fmt.Errorf("x%d in %s: %w", scale, r.modelsDir, ErrModelNotFound)
}

func (r *Resolver) weightPath(desc models.Descriptor, scale int) (string, bool) {
	path := filepath.Join(r.modelsDir, desc.WeightFilename(scale))
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

// Upscale enlarges img by scale. The returned error is non-nil only for an
// invalid argument (wrapping ErrInvalidArgument), checked before any
// filesystem access.
func (r *Resolver) Upscale(img *core.Image, scale int) (Outcome, error) {
	start := time.Now()

	if err := validateArgs(img, scale); err != nil {
		return Outcome{}, err
	}

	outcome, err := r.resolve(img, scale)
	if err != nil {
		return Outcome{}, err
	}

	outcome.Scale = scale
	outcome.Duration = time.Since(start)
	r.recorder.Observe(outcome)

	r.logger.WithFields(logrus.Fields{
		"method":   outcome.Method.String(),
		"label":    outcome.Label,
		"input":    fmt.Sprintf("%dx%d", img.Width(), img.Height()),
		"output":   fmt.Sprintf("%dx%d", outcome.Image.Width(), outcome.Image.Height()),
		"duration": outcome.Duration,
	}).Debug("Upscale completed")

	return outcome, nil
}

func validateArgs(img *core.Image, scale int) error {
	if scale <= 0 {
		return fmt.Errorf("scale %d must be positive: %w", scale, ErrInvalidArgument)
	}
	if err := core.ValidateImage(img); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if scale > core.MaxDimension/img.Width() || scale > core.MaxDimension/img.Height() {
		return fmt.Errorf("%dx%d at x%d exceeds %d: %w",
			img.Width(), img.Height(), scale, core.MaxDimension, ErrInvalidArgument)
	}
	return nil
}

func (r *Resolver) resolve(img *core.Image, scale int) (Outcome, error) {
	if err := r.runtime.Available(); err != nil {
		r.logger.WithError(err).Warn("Model runtime not available, using generic interpolation")
		return r.fallback(img, scale, MethodNoRuntime, err, Match{})
	}

	match, err := r.Find(scale)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"scale":      scale,
			"models_dir": r.modelsDir,
		}).Warn("No super-resolution model found, using generic interpolation")
		return r.fallback(img, scale, MethodNoModel, err, Match{})
	}

	name := match.Descriptor.DisplayName()
	r.logger.WithFields(logrus.Fields{
		"model": name,
		"scale": match.Scale,
		"path":  match.Path,
		"exact": match.Exact,
	}).Info("Loading super-resolution model")

	result, err := r.apply(match, img, scale)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"model": name,
			"scale": match.Scale,
			"path":  match.Path,
		}).WithError(err).Error("Super-resolution failed, using generic interpolation")
		return r.fallback(img, scale, MethodModelFailed, err, match)
	}

	method := MethodModel
	if match.Scale != scale {
		method = MethodModelRescaled
	}

	return Outcome{
		Image:      result,
		Label:      modelLabel(name, scale, match.Scale),
		Method:     method,
		Model:      name,
		ModelScale: match.Scale,
		WeightPath: match.Path,
	}, nil
}

// apply loads the matched model, runs it and reconciles the output size.
// Panics raised by the runtime are converted into ErrModelExecution.
func (r *Resolver) apply(match Match, img *core.Image, scale int) (out *core.Image, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("%w: %s: panic: %v", ErrModelExecution, match.Path, p)
		}
	}()

	model, err := r.runtime.Load(match.Descriptor, match.Path, match.Scale)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %w", ErrModelExecution, match.Path, err)
	}
	defer func() {
		if cerr := model.Close(); cerr != nil {
			r.logger.WithError(cerr).Debug("Closing model")
		}
	}()

	result, err := model.Upsample(img)
	if err != nil {
		return nil, fmt.Errorf("%w: running %s: %w", ErrModelExecution, match.Path, err)
	}
	if err := core.ValidateImage(result); err != nil {
		return nil, fmt.Errorf("%w: %s produced %w", ErrModelExecution, match.Path, err)
	}

	width, height := reconciledSize(img, result, scale, match.Scale)
	if result.Width() == width && result.Height() == height {
		return result, nil
	}

	if match.Scale == scale {
		r.logger.WithFields(logrus.Fields{
			"model":    match.Descriptor.DisplayName(),
			"expected": fmt.Sprintf("%dx%d", width, height),
			"actual":   fmt.Sprintf("%dx%d", result.Width(), result.Height()),
		}).Warn("Model output size differs from requested scale, resizing")
	}

	reconciled, err := r.resize(result, width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: reconciling x%d to x%d: %w", ErrModelExecution, match.Scale, scale, err)
	}
	return reconciled, nil
}

// reconciledSize is in*scale for an exact match; otherwise the model output
// scaled by scale/modelScale with each dimension rounded down.
func reconciledSize(in, out *core.Image, scale, modelScale int) (int, int) {
	if scale == modelScale {
		return in.Width() * scale, in.Height() * scale
	}
	return algorithms.ScaledSize(out.Width(), out.Height(), scale, modelScale)
}

func (r *Resolver) fallback(img *core.Image, scale int, method Method, cause error, match Match) (Outcome, error) {
	result, err := r.resize(img, img.Width()*scale, img.Height()*scale)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{
		Image:  result,
		Label:  fallbackLabel(method),
		Method: method,
		Cause:  cause,
	}
	if match.Path != "" {
		outcome.Model = match.Descriptor.DisplayName()
		outcome.ModelScale = match.Scale
		outcome.WeightPath = match.Path
	}
	return outcome, nil
}

// resize uses the configured interpolator and retries with the built-in
// cubic kernel if it fails.
func (r *Resolver) resize(img *core.Image, width, height int) (*core.Image, error) {
	out, err := r.interp.Resize(img, width, height)
	if err == nil {
		return out, nil
	}

	builtin := algorithms.Default()
	if r.interp == builtin {
		return nil, err
	}

	r.logger.WithError(err).WithField("interpolator", r.interp.Name()).
		Warn("Interpolator failed, retrying with built-in cubic")
	return builtin.Resize(img, width, height)
}
