package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-upscaler/internal/algorithms"
	"image-upscaler/internal/core"
	imgio "image-upscaler/internal/io"
	"image-upscaler/internal/metrics"
	"image-upscaler/internal/upscale"
)

// DefaultPreviewSize bounds the --preview thumbnail in both dimensions.
const DefaultPreviewSize = 256

func newUpscaleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upscale INPUT OUTPUT",
		Short: "Upscale an image by an integer factor",
		Example: `  upscaler upscale photo.png photo_x4.png --scale 4
  upscaler upscale photo.jpg big.png -s 3 --report --preview thumb.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.upscaleHandler(cmd, args)
		},
	}

	cmd.Flags().IntP("scale", "s", 2, "Integer upscaling factor")
	cmd.Flags().String("preview", "", "Also write a thumbnail of the result to this path")
	cmd.Flags().Int("preview-size", DefaultPreviewSize, "Maximum thumbnail width and height")
	cmd.Flags().Bool("report", false, "Print a quality report comparing the result with the input")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file (textfile collector format)")

	return cmd
}

func (a *app) upscaleHandler(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]
	scale, _ := cmd.Flags().GetInt("scale")

	if !imgio.IsWritable(output) {
		return fmt.Errorf("unsupported output format: %s", filepath.Ext(output))
	}

	loader := imgio.NewImageLoader(a.logger)
	img, err := loader.LoadImage(input)
	if err != nil {
		return err
	}

	outcome, err := a.resolver.Upscale(img, scale)
	if err != nil {
		return err
	}

	if err := loader.SaveImage(outcome.Image, output); err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"input":    input,
		"output":   output,
		"scale":    scale,
		"method":   outcome.Method.String(),
		"duration": outcome.Duration,
	}).Info("Image upscaled")

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: %dx%d -> %dx%d\n", outcome.Label,
		img.Width(), img.Height(), outcome.Image.Width(), outcome.Image.Height())
	if outcome.Cause != nil {
		fmt.Fprintf(w, "reason: %v\n", outcome.Cause)
	}

	if path, _ := cmd.Flags().GetString("preview"); path != "" {
		size, _ := cmd.Flags().GetInt("preview-size")
		if err := a.writePreview(loader, outcome.Image, path, size); err != nil {
			return err
		}
	}

	if report, _ := cmd.Flags().GetBool("report"); report {
		if err := a.printReport(cmd, img, outcome); err != nil {
			return err
		}
	}

	metricsFile := a.cfg.MetricsFile
	if cmd.Flags().Changed("metrics-file") {
		metricsFile, _ = cmd.Flags().GetString("metrics-file")
	}
	if metricsFile != "" {
		if err := a.recorder.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	return nil
}

func (a *app) writePreview(loader *imgio.ImageLoader, img *core.Image, path string, size int) error {
	thumb, err := algorithms.Thumbnail(img, size, size)
	if err != nil {
		return fmt.Errorf("creating preview: %w", err)
	}
	if err := loader.SaveImage(thumb, path); err != nil {
		return err
	}
	a.logger.WithFields(logrus.Fields{
		"path": path,
		"size": fmt.Sprintf("%dx%d", thumb.Width(), thumb.Height()),
	}).Debug("Preview written")
	return nil
}

// printReport scores the result by resizing it back to the input size with
// the configured interpolator and comparing the two.
func (a *app) printReport(cmd *cobra.Command, original *core.Image, outcome upscale.Outcome) error {
	restored, err := algorithms.Resize(a.cfg.Interpolation, outcome.Image, original.Width(), original.Height())
	if err != nil {
		return fmt.Errorf("preparing report: %w", err)
	}

	evaluator := metrics.NewEvaluator()
	report := evaluator.GenerateReport(original, restored)

	var data [][]string
	for _, name := range evaluator.Names() {
		if value, ok := report.Metrics[name]; ok {
			data = append(data, []string{strings.ToUpper(name), fmt.Sprintf("%.4f", value)})
		}
	}
	data = append(data,
		[]string{"OVERALL", fmt.Sprintf("%.4f", report.OverallScore)},
		[]string{"QUALITY", report.Analysis.QualityLevel},
	)

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"METRIC", "VALUE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	for _, issue := range report.Analysis.Issues {
		fmt.Fprintf(w, "issue: %s\n", issue)
	}
	for _, suggestion := range report.Analysis.Suggestions {
		fmt.Fprintf(w, "suggestion: %s\n", suggestion)
	}

	return nil
}
