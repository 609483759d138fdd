package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkgscout/internal/domain"
	"pkgscout/internal/install"
)

var (
	searchLimit   int
	searchSource  string
	searchNoCache bool
	searchJSON    bool
	searchAll     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for a package across every available source",
	Long: `Search all package sources on this system and print the best matches
ranked by relevance, each with its install command.

Examples:
  pkgscout search firefox
  pkgscout search --source flatpak gimp
  pkgscout search --limit 10 --no-cache "visual studio code"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "prefer results from this source (pacman, aur, apt, dnf, flatpak, snap)")
	searchCmd.Flags().BoolVar(&searchNoCache, "no-cache", false, "bypass the result cache")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchAll, "all-sources", false, "query every source regardless of detected distribution")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a := setup()
	defer a.close()

	query := strings.Join(args, " ")

	var prefer domain.Source
	raw := searchSource
	if raw == "" {
		raw = a.cfg.PreferredSource
	}
	if raw != "" {
		parsed, ok := domain.ParseSource(raw)
		if !ok {
			return fmt.Errorf("unknown source %q", raw)
		}
		prefer = parsed
	}

	limit := searchLimit
	if limit <= 0 {
		limit = a.cfg.ResultLimit
	}

	svc := a.buildSearchService(searchAll)
	resp, err := svc.Search(context.Background(), domain.SearchRequest{
		Query:        query,
		Limit:        limit,
		PreferSource: prefer,
		NoCache:      searchNoCache || a.cfg.CacheDisabled,
	})
	if err != nil {
		return err
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	renderSearchResponse(resp)
	return nil
}

func renderSearchResponse(resp domain.SearchResponse) {
	if len(resp.Items) == 0 {
		fmt.Println(mutedStyle.Render("No packages found for \"" + resp.Query + "\"."))
	} else {
		fmt.Println(titleStyle.Render(fmt.Sprintf("Results for %q", resp.Query)))
		for i, item := range resp.Items {
			fmt.Printf("%2d. %s  %s\n", i+1,
				nameStyle.Render(item.Record.Name),
				sourceStyle.Render("["+string(item.Record.Source)+"]"))
			if desc := strings.TrimSpace(item.Record.Description); desc != "" {
				fmt.Printf("    %s\n", mutedStyle.Render(desc))
			}
			if cmdLine := install.Command(item.Record.Name, item.Record.Source); cmdLine != "" {
				fmt.Printf("    %s\n", commandStyle.Render("$ "+cmdLine))
			}
		}
	}

	for _, st := range resp.Sources {
		if st.OK {
			continue
		}
		fmt.Println(errorStyle.Render(fmt.Sprintf("! %s unavailable (%s): %s", st.Source, st.Kind, st.Error)))
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf("scanned %d candidates across %d sources in %dms",
		resp.TotalScanned, len(resp.Sources), resp.ElapsedMS)))
}
