package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// registryFile is the on-disk form of a registry override:
//
//	priority: [edsr, espcn]
//	models:
//	  - name: edsr
//	    default_scale: 4
//	    supported_scales: [2, 3, 4]
type registryFile struct {
	Priority []string     `yaml:"priority"`
	Models   []Descriptor `yaml:"models"`
}

// LoadFile reads a YAML registry that replaces the compiled-in table.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML registry document.
func Parse(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing registry: %v: %w", err, ErrInvalidRegistry)
	}
	return New(f.Models, f.Priority)
}
