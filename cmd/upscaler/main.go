// Image Upscaler - super-resolution with graceful fallback
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-upscaler/internal/algorithms"
	"image-upscaler/internal/config"
	"image-upscaler/internal/metrics"
	"image-upscaler/internal/models"
	"image-upscaler/internal/opencv"
	"image-upscaler/internal/upscale"
)

const (
	AppName    = "upscaler"
	AppVersion = "1.0.0"
)

func main() {
	if err := NewCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg      config.Config
	logger   *logrus.Logger
	runtime  *opencv.Runtime
	recorder *metrics.Recorder
	resolver *upscale.Resolver
}

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	a := &app{}

	rootCmd := &cobra.Command{
		Use:           AppName,
		Short:         "Upscale images with super-resolution models, falling back to interpolation",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML or TOML configuration file")
	flags.String("env-file", ".env", "Path to an optional .env file")
	flags.String("models-dir", "", "Directory containing super-resolution weight files")
	flags.String("interpolation", "", "Generic interpolator: "+interpolatorChoices())
	flags.Bool("no-runtime", false, "Never run models, always use generic interpolation")
	flags.Bool("debug", false, "Enable debug mode with verbose logging")

	rootCmd.AddCommand(
		newUpscaleCmd(a),
		newModelsCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

// setup resolves configuration, applies flag overrides and builds the
// resolver with its collaborators.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	envFile, _ := flags.GetString("env-file")

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return err
	}

	if flags.Changed("models-dir") {
		cfg.ModelsDir, _ = flags.GetString("models-dir")
	}
	if flags.Changed("interpolation") {
		cfg.Interpolation, _ = flags.GetString("interpolation")
	}
	if noRuntime, _ := flags.GetBool("no-runtime"); noRuntime {
		cfg.DisableRuntime = true
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}

	logger, err := initLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	interp, err := selectInterpolator(cfg.Interpolation)
	if err != nil {
		return err
	}

	registry := models.Default()
	if cfg.RegistryFile != "" {
		if registry, err = models.LoadFile(cfg.RegistryFile); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.logger = logger
	a.runtime = opencv.NewRuntime(logger)
	a.recorder = metrics.NewRecorder()

	opts := []upscale.Option{
		upscale.WithRegistry(registry),
		upscale.WithInterpolator(interp),
		upscale.WithLogger(logger),
		upscale.WithRecorder(a.recorder),
	}
	if !cfg.DisableRuntime {
		opts = append(opts, upscale.WithRuntime(a.runtime))
	}
	a.resolver = upscale.New(cfg.ModelsDir, opts...)

	logger.WithFields(logrus.Fields{
		"version":         AppVersion,
		"models_dir":      cfg.ModelsDir,
		"interpolation":   interp.Name(),
		"runtime_enabled": !cfg.DisableRuntime,
	}).Debug("Configuration loaded")

	return nil
}

// initLogger initializes the logger with appropriate level
func initLogger(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logger.Debug("Debug logging enabled")
	return logger, nil
}

func selectInterpolator(name string) (algorithms.Interpolator, error) {
	interp, ok := algorithms.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown interpolation %q, want one of %s", name, interpolatorChoices())
	}
	return interp, nil
}

func interpolatorChoices() string {
	return strings.Join(algorithms.Names(), ", ")
}
