package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelparity/internal/kernel"
)

var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and CPU information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "pixelparity version %s\n", version)
		fmt.Fprintf(out, "backend: %s\n", kernel.ActiveBackend())
		fmt.Fprintf(out, "features: %s\n", kernel.Features())
		fmt.Fprintf(out, "hardware crc32c: %t\n", kernel.HardwareCRC())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
