// Package config provides configuration management for the upscaler.
//
// Values are resolved in order: defaults, then an optional YAML or TOML
// file, then a .env file, then UPSCALER_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"image-upscaler/internal/algorithms"
)

// Environment variables overriding file values.
const (
	EnvModelsDir      = "UPSCALER_MODELS_DIR"
	EnvRegistryFile   = "UPSCALER_REGISTRY_FILE"
	EnvInterpolation  = "UPSCALER_INTERPOLATION"
	EnvDisableRuntime = "UPSCALER_DISABLE_RUNTIME"
	EnvLogLevel       = "UPSCALER_LOG_LEVEL"
	EnvLogFormat      = "UPSCALER_LOG_FORMAT"
	EnvMetricsFile    = "UPSCALER_METRICS_FILE"
)

// Config holds the application configuration
type Config struct {
	// ModelsDir is searched for weight files such as EDSR_x4.pb.
	ModelsDir string `yaml:"models_dir" toml:"models_dir"`

	// RegistryFile optionally replaces the built-in model table.
	RegistryFile string `yaml:"registry_file" toml:"registry_file"`

	// Interpolation names the generic interpolator: cubic, linear,
	// nearest, lanczos, opencv-cubic or opencv-lanczos4.
	Interpolation string `yaml:"interpolation" toml:"interpolation"`

	// DisableRuntime forces generic interpolation even when OpenCV is linked.
	DisableRuntime bool `yaml:"disable_runtime" toml:"disable_runtime"`

	// MetricsFile, when set, receives Prometheus metrics after each run.
	MetricsFile string `yaml:"metrics_file" toml:"metrics_file"`

	Log LogConfig `yaml:"log" toml:"log"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text or json
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ModelsDir:     "models",
		Interpolation: algorithms.DefaultInterpolation,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load resolves the configuration. path may be empty; envFile may be empty
// to skip .env loading, and a missing envFile is not an error.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvModelsDir); ok {
		cfg.ModelsDir = v
	}
	if v, ok := os.LookupEnv(EnvRegistryFile); ok {
		cfg.RegistryFile = v
	}
	if v, ok := os.LookupEnv(EnvInterpolation); ok {
		cfg.Interpolation = v
	}
	if v, ok := os.LookupEnv(EnvMetricsFile); ok {
		cfg.MetricsFile = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		cfg.Log.Format = v
	}
	if v, ok := os.LookupEnv(EnvDisableRuntime); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvDisableRuntime, v, err)
		}
		cfg.DisableRuntime = b
	}
	return nil
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	if c.ModelsDir == "" {
		return fmt.Errorf("models_dir must not be empty")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q: want text or json", c.Log.Format)
	}
	return nil
}
