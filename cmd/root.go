package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keystone-claims/appliance-research/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "appliance-research",
	Short: "Appliance specification research and replacement ranking",
	Long:  "Resolves appliance specifications from web search results, with AI-assisted extraction fallback, and ranks in-market replacement candidates against them.",
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
