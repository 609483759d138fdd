package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pkgscout version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pkgscout %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
	},
}
