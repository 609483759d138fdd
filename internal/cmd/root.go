// Package cmd wires the pkgscout CLI: argument parsing, output rendering,
// and construction of the search, cache, completion, and suggestion
// components from environment configuration.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pkgscout",
	Short: "search packages across every manager on your system",
	Long: `pkgscout - one search across pacman, AUR, apt, dnf, flatpak and snap
  - finds the package you mean, ranked by relevance
  - prints the exact install command for its source`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}
