package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pkgscout/internal/complete"
)

var (
	completeContext string
	completeLimit   int
	completeJSON    bool
)

var completeCmd = &cobra.Command{
	Use:   "complete <prefix>",
	Short: "Suggest package names for a partial query",
	Long: `Print completion candidates for a partial package name. The default
newline-separated output plugs straight into shell completion scripts.

Examples:
  pkgscout complete fir
  pkgscout complete vsc
  pkgscout complete --context remove --json fire`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().StringVar(&completeContext, "context", complete.ContextInstall, "completion context: install or remove")
	completeCmd.Flags().IntVarP(&completeLimit, "limit", "n", 0, "maximum number of suggestions (default from config)")
	completeCmd.Flags().BoolVar(&completeJSON, "json", false, "output suggestions as JSON with scores")
}

func runComplete(cmd *cobra.Command, args []string) error {
	a := setup()
	defer a.close()

	limit := completeLimit
	if limit <= 0 {
		limit = a.cfg.CompletionLimit
	}

	engine := a.buildCompletionEngine()
	suggestions := engine.Complete(args[0], completeContext, limit)

	if completeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}
	for _, s := range suggestions {
		fmt.Println(s.Name)
	}
	return nil
}

var recordCmd = &cobra.Command{
	Use:   "record <package>",
	Short: "Record a package usage so completion learns your habits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := setup()
		defer a.close()

		engine := a.buildCompletionEngine()
		ctx := context.Background()
		engine.RecordUsage(ctx, args[0])
		engine.Flush(ctx)
		return nil
	},
}
