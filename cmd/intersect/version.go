package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the intersect version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := color.New(color.FgCyan, color.Bold)
		if !useColor(cmd) {
			c.DisableColor()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "intersect %s\n", c.Sprint(version))
	},
}
