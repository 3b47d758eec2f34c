package main

import (
	"os"

	"github.com/spf13/cobra"

	"mica/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "mica",
	Short: "Mica mid-level IR toolchain",
	Long:  `Mica builds, transforms and inspects the mid-level IR of compiled bodies`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(snapshotCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
