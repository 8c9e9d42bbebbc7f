package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s version %s\n", AppName, AppVersion)
			if v := a.runtime.Version(); v != "" {
				fmt.Fprintf(w, "OpenCV version %s\n", v)
			}
		},
	}
}
