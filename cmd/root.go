package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/superior-tools/crm-resolver/internal/config"
	"github.com/superior-tools/crm-resolver/pkg/fence"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "crm-resolver",
	Short: "Resolve free-text customer names against the Fence360 CRM",
	Long:  "Resolves messy customer names via progressive fuzzy search, deduplicates lead identities, enriches them with contracts, and reports discount-normalized totals.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newFenceClient builds the CRM client from configuration. The session
// cookie always comes from config or environment.
func newFenceClient() fence.Client {
	return fence.NewClient(cfg.Fence.Cookie,
		fence.WithBaseURL(cfg.Fence.BaseURL),
		fence.WithRateLimit(cfg.Fence.RateLimit),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
