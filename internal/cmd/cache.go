package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pkgscout/internal/domain"
)

var (
	cacheStatsJSON        bool
	cacheInvalidateSource string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show result cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := setup()
		defer a.close()

		c := a.buildCache()
		if c == nil {
			fmt.Println(mutedStyle.Render("cache is disabled"))
			return nil
		}

		stats, err := c.Stats(context.Background())
		if err != nil {
			return err
		}

		if cacheStatsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		fmt.Println(titleStyle.Render("Result cache"))
		fmt.Printf("  entries:  %d (%d expired)\n", stats.TotalEntries, stats.ExpiredEntries)
		fmt.Printf("  accesses: %d\n", stats.TotalAccesses)
		for source, count := range stats.BySource {
			fmt.Printf("  %-9s %d\n", source, count)
		}
		if !stats.OldestEntry.IsZero() {
			fmt.Printf("  oldest:   %s\n", stats.OldestEntry.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached result",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := setup()
		defer a.close()

		c := a.buildCache()
		if c == nil {
			fmt.Println(mutedStyle.Render("cache is disabled"))
			return nil
		}

		removed, err := c.Clear(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("removed %d cached entries\n", removed)
		return nil
	},
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate <query>",
	Short: "Remove the cached results for one query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := setup()
		defer a.close()

		c := a.buildCache()
		if c == nil {
			fmt.Println(mutedStyle.Render("cache is disabled"))
			return nil
		}

		var scope []domain.Source
		if cacheInvalidateSource != "" {
			source, ok := domain.ParseSource(cacheInvalidateSource)
			if !ok {
				return fmt.Errorf("unknown source %q", cacheInvalidateSource)
			}
			scope = append(scope, source)
		}

		removed, err := c.Invalidate(context.Background(), args[0], scope...)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d cached entries for %q\n", removed, args[0])
		return nil
	},
}

func init() {
	cacheStatsCmd.Flags().BoolVar(&cacheStatsJSON, "json", false, "output stats as JSON")
	cacheInvalidateCmd.Flags().StringVar(&cacheInvalidateSource, "source", "", "only remove the entry for this source")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)
}
