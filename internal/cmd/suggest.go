package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkgscout/internal/suggest"
)

var (
	suggestJSON    bool
	suggestMapping string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <purpose>",
	Short: "Suggest applications for a purpose",
	Long: `Describe what you want to do and get curated application suggestions.

Examples:
  pkgscout suggest video editing
  pkgscout suggest "apps to edit videos"
  pkgscout suggest gaming`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "output matches as JSON")
	suggestCmd.Flags().StringVar(&suggestMapping, "mapping", "", "path to a custom purpose mapping YAML file")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a := setup()
	defer a.close()

	var (
		s   *suggest.Suggester
		err error
	)
	if suggestMapping != "" {
		s, err = suggest.NewFromFile(suggestMapping)
	} else {
		s, err = suggest.New()
	}
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	matches := s.Find(query)

	if suggestJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		fmt.Println(mutedStyle.Render("No suggestions for \"" + query + "\"."))
		fmt.Println(mutedStyle.Render("Known purposes: " + strings.Join(s.Purposes(), ", ")))
		return nil
	}

	for _, m := range matches {
		fmt.Println(titleStyle.Render(m.Purpose))
		for _, app := range m.Apps {
			fmt.Printf("  %s\n", nameStyle.Render(app))
		}
	}
	return nil
}
