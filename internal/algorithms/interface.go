// Model-free resampling used whenever no super-resolution model is usable
package algorithms

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"image-upscaler/internal/core"
)

// DefaultInterpolation is the kernel used by generic interpolation.
const DefaultInterpolation = "cubic"

// ErrInvalidSize reports a non-positive or oversized target dimension.
var ErrInvalidSize = errors.New("algorithms: invalid target size")

// Interpolator resizes an image to exact dimensions without any model.
type Interpolator interface {
	Name() string
	Resize(src *core.Image, width, height int) (*core.Image, error)
}

var (
	mu            sync.RWMutex
	interpolators = make(map[string]Interpolator)
)

// Register makes an interpolator available under name.
func Register(name string, interp Interpolator) {
	mu.Lock()
	defer mu.Unlock()
	interpolators[name] = interp
}

// Get returns the interpolator registered under name.
func Get(name string) (Interpolator, bool) {
	mu.RLock()
	defer mu.RUnlock()
	interp, exists := interpolators[name]
	return interp, exists
}

// MustGet is Get for names known to be registered.
func MustGet(name string) Interpolator {
	interp, ok := Get(name)
	if !ok {
		panic(fmt.Sprintf("algorithms: interpolator %q not registered", name))
	}
	return interp
}

// Default returns the cubic interpolator.
func Default() Interpolator {
	return MustGet(DefaultInterpolation)
}

// Names lists registered interpolators in lexical order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(interpolators))
	for name := range interpolators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resize dispatches to the interpolator registered under name.
func Resize(name string, src *core.Image, width, height int) (*core.Image, error) {
	interp, exists := Get(name)
	if !exists {
		return nil, fmt.Errorf("interpolator not found: %s", name)
	}
	return interp.Resize(src, width, height)
}

// ScaledSize scales both dimensions by num/den, rounding down. Integer
// arithmetic keeps ratios such as 2/3 exact.
func ScaledSize(width, height, num, den int) (int, int) {
	return width * num / den, height * num / den
}

// ValidateTarget checks source and target dimensions before resampling.
func ValidateTarget(src *core.Image, width, height int) error {
	if err := core.ValidateImage(src); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("target %dx%d: %w", width, height, ErrInvalidSize)
	}
	if width > core.MaxDimension || height > core.MaxDimension {
		return fmt.Errorf("target %dx%d exceeds %d: %w", width, height, core.MaxDimension, ErrInvalidSize)
	}
	return nil
}

func init() {
	Register("cubic", NewKernel("cubic", catmullRom))
	Register("linear", NewKernel("linear", biLinear))
	Register("nearest", NewKernel("nearest", nearestNeighbor))
	Register("lanczos", NewLanczos())
}
