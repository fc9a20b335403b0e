package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psantana5/cpxanno/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cpxanno version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", version.Generator, version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
