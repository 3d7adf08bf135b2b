package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "recipecost",
	Short:         "recipecost prices materials and recipes from your terminal",
	Long:          "recipecost runs the same cost engine as the web app: per-unit material costs, recipe pricing with a margin, and CSV material imports.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(costCmd, priceCmd, importCmd)
}
