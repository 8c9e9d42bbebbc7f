// Package models declares the super-resolution model families the resolver
// knows about and how their weight files are named on disk.
package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// WeightExtension is the file extension of serialized model weights.
const WeightExtension = ".pb"

// Sentinel errors for registry operations.
var (
	// ErrUnknownModel indicates the name is not present in the registry.
	ErrUnknownModel = errors.New("models: unknown model")

	// ErrInvalidRegistry indicates a descriptor table that cannot be used.
	ErrInvalidRegistry = errors.New("models: invalid registry")
)

// Descriptor describes one model family. Descriptors are immutable values.
type Descriptor struct {
	// Name is the lower-case identifier, e.g. "edsr".
	Name string `yaml:"name"`

	// DefaultScale is the scale the family is usually distributed for.
	DefaultScale int `yaml:"default_scale"`

	// SupportedScales lists the scales served without post-hoc rescaling.
	SupportedScales []int `yaml:"supported_scales"`
}

// Supports reports whether the family natively serves scale.
func (d Descriptor) Supports(scale int) bool {
	return slices.Contains(d.SupportedScales, scale)
}

// DisplayName is the upper-case form used in weight files and labels.
func (d Descriptor) DisplayName() string {
	return strings.ToUpper(d.Name)
}

// WeightFilename returns the weight file name for this family at scale.
func (d Descriptor) WeightFilename(scale int) string {
	return WeightFilename(d.Name, scale)
}

// WeightFilename derives the weight file name for a model and scale,
// e.g. ("edsr", 4) -> "EDSR_x4.pb".
func WeightFilename(name string, scale int) string {
	return fmt.Sprintf("%s_x%d%s", strings.ToUpper(name), scale, WeightExtension)
}

// Registry is a fixed mapping from name to descriptor plus the priority
// order used when several weight files could serve the same scale.
// A Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	descriptors map[string]Descriptor
	priority    []string
}

// builtin is the compiled-in table. Priority: edsr, espcn, fsrcnn, lapsrn.
var builtin = []Descriptor{
	{Name: "edsr", DefaultScale: 4, SupportedScales: []int{2, 3, 4}},
	{Name: "espcn", DefaultScale: 4, SupportedScales: []int{2, 3, 4}},
	{Name: "fsrcnn", DefaultScale: 4, SupportedScales: []int{2, 3, 4}},
	{Name: "lapsrn", DefaultScale: 8, SupportedScales: []int{8}},
}

var defaultRegistry = mustNew(builtin, nil)

// Default returns the compiled-in registry.
func Default() *Registry {
	return defaultRegistry
}

// New builds a registry from descriptors. When priority is empty the
// descriptor order is used as the priority order.
func New(descriptors []Descriptor, priority []string) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("no descriptors: %w", ErrInvalidRegistry)
	}

	r := &Registry{
		descriptors: make(map[string]Descriptor, len(descriptors)),
	}

	for _, d := range descriptors {
		d.Name = strings.ToLower(strings.TrimSpace(d.Name))
		if err := validateDescriptor(d); err != nil {
			return nil, err
		}
		if _, dup := r.descriptors[d.Name]; dup {
			return nil, fmt.Errorf("duplicate model %q: %w", d.Name, ErrInvalidRegistry)
		}
		d.SupportedScales = slices.Clone(d.SupportedScales)
		r.descriptors[d.Name] = d
		if len(priority) == 0 {
			r.priority = append(r.priority, d.Name)
		}
	}

	if len(priority) > 0 {
		seen := make(map[string]bool, len(priority))
		for _, name := range priority {
			name = strings.ToLower(strings.TrimSpace(name))
			if _, ok := r.descriptors[name]; !ok {
				return nil, fmt.Errorf("priority entry %q: %w", name, ErrUnknownModel)
			}
			if seen[name] {
				return nil, fmt.Errorf("priority lists %q twice: %w", name, ErrInvalidRegistry)
			}
			seen[name] = true
			r.priority = append(r.priority, name)
		}
		if len(r.priority) != len(r.descriptors) {
			return nil, fmt.Errorf("priority covers %d of %d models: %w",
				len(r.priority), len(r.descriptors), ErrInvalidRegistry)
		}
	}

	return r, nil
}

func mustNew(descriptors []Descriptor, priority []string) *Registry {
	r, err := New(descriptors, priority)
	if err != nil {
		panic(err)
	}
	return r
}

func validateDescriptor(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("descriptor without name: %w", ErrInvalidRegistry)
	}
	if d.DefaultScale <= 0 {
		return fmt.Errorf("model %q: default scale %d: %w", d.Name, d.DefaultScale, ErrInvalidRegistry)
	}
	if len(d.SupportedScales) == 0 {
		return fmt.Errorf("model %q: no supported scales: %w", d.Name, ErrInvalidRegistry)
	}
	for _, s := range d.SupportedScales {
		if s <= 0 {
			return fmt.Errorf("model %q: supported scale %d: %w", d.Name, s, ErrInvalidRegistry)
		}
	}
	if !d.Supports(d.DefaultScale) {
		return fmt.Errorf("model %q: default scale x%d not in supported scales: %w",
			d.Name, d.DefaultScale, ErrInvalidRegistry)
	}
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	d, ok := r.descriptors[strings.ToLower(name)]
	if !ok {
		return Descriptor{}, fmt.Errorf("%q: %w", name, ErrUnknownModel)
	}
	d.SupportedScales = slices.Clone(d.SupportedScales)
	return d, nil
}

// Priority returns model names in search order.
func (r *Registry) Priority() []string {
	return slices.Clone(r.priority)
}

// Descriptors returns all descriptors in priority order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.priority))
	for _, name := range r.priority {
		d := r.descriptors[name]
		d.SupportedScales = slices.Clone(d.SupportedScales)
		out = append(out, d)
	}
	return out
}

// ForScale returns, in priority order, every model that natively supports
// scale. The result may be empty.
func (r *Registry) ForScale(scale int) []Descriptor {
	var out []Descriptor
	for _, d := range r.Descriptors() {
		if d.Supports(scale) {
			out = append(out, d)
		}
	}
	return out
}
