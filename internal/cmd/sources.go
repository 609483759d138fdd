package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sourcesJSON bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List package sources and whether they are usable on this system",
	RunE:  runSources,
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesJSON, "json", false, "output sources as JSON")
}

func runSources(cmd *cobra.Command, args []string) error {
	a := setup()
	defer a.close()

	infos := a.buildSearchService(true).Sources()

	if sourcesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	for _, info := range infos {
		state := errorStyle.Render("unavailable")
		if info.Enabled {
			state = nameStyle.Render("available")
		}
		fmt.Printf("%-10s %-30s %s\n", sourceStyle.Render(string(info.Source)), info.Label, state)
	}
	return nil
}
