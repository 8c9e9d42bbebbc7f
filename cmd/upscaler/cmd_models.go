package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"image-upscaler/internal/models"
	"image-upscaler/internal/upscale"
)

func newModelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "models [NAME]",
		Aliases: []string{"ls"},
		Short:   "List known models and the weight files present",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.modelsHandler(cmd, args)
		},
	}

	cmd.Flags().IntP("scale", "s", 0, "Also show which model would be used for this scale")

	return cmd
}

func (a *app) modelsHandler(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	registry := a.resolver.Registry()

	descriptors := registry.Descriptors()
	if len(args) == 1 {
		desc, err := registry.Lookup(args[0])
		if err != nil {
			return err
		}
		descriptors = []models.Descriptor{desc}
	}

	var data [][]string
	for _, desc := range descriptors {
		data = append(data, []string{
			desc.DisplayName(),
			"x" + strconv.Itoa(desc.DefaultScale),
			joinScales(desc.SupportedScales),
			strings.Join(presentWeights(a.resolver.ModelsDir(), desc), ", "),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"NAME", "DEFAULT", "SCALES", "WEIGHTS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "models dir: %s\n", a.resolver.ModelsDir())
	fmt.Fprintf(w, "search order: %s\n", strings.Join(registry.Priority(), ", "))
	switch rterr := a.runtime.Available(); {
	case a.cfg.DisableRuntime:
		fmt.Fprintln(w, "runtime: disabled")
	case rterr != nil:
		fmt.Fprintf(w, "runtime: unavailable (%v)\n", rterr)
	default:
		fmt.Fprintf(w, "runtime: OpenCV %s\n", a.runtime.Version())
	}

	scale, _ := cmd.Flags().GetInt("scale")
	if scale <= 0 {
		return nil
	}

	match, err := a.resolver.Find(scale)
	switch {
	case errors.Is(err, upscale.ErrModelNotFound):
		fmt.Fprintf(w, "x%d: %s\n", scale, upscale.LabelNoModel)
	case err != nil:
		return err
	case match.Exact:
		fmt.Fprintf(w, "x%d: %s (%s)\n", scale, match.Descriptor.DisplayName(), match.Path)
	default:
		fmt.Fprintf(w, "x%d: %s at native x%d, rescaled (%s)\n",
			scale, match.Descriptor.DisplayName(), match.Scale, match.Path)
	}

	return nil
}

// presentWeights lists the weight files for desc that exist in dir.
func presentWeights(dir string, desc models.Descriptor) []string {
	scales := slices.Clone(desc.SupportedScales)
	if !slices.Contains(scales, desc.DefaultScale) {
		scales = append(scales, desc.DefaultScale)
	}
	slices.Sort(scales)

	var found []string
	for _, scale := range scales {
		name := desc.WeightFilename(scale)
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.Mode().IsRegular() {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return []string{"-"}
	}
	return found
}

func joinScales(scales []int) string {
	parts := make([]string, len(scales))
	for i, s := range scales {
		parts[i] = "x" + strconv.Itoa(s)
	}
	return strings.Join(parts, " ")
}
