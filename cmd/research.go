package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/keystone-claims/appliance-research/internal/model"
)

var researchCmd = &cobra.Command{
	Use:   "research <brand> <model>",
	Short: "Resolve an appliance's specification from web search results",
	Long: `Searches the web for "<brand> <model> specifications", extracts size,
fuel, and feature fields from the aggregated results, and falls back to
AI-assisted extraction when the rule-based result is low quality.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("research"); err != nil {
			return err
		}

		brand, modelNumber := args[0], args[1]
		category, _ := cmd.Flags().GetString("category")
		forceAI, _ := cmd.Flags().GetBool("force-ai")

		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		resolver := newResolver(newSearchClient())
		result := resolver.Research(ctx, brand, modelNumber, model.NormalizeCategory(category), forceAI)

		saveRun(ctx, st, model.RunKindResearch, researchRequest{
			Brand:         brand,
			Model:         modelNumber,
			ApplianceType: category,
			ForceAI:       forceAI,
		}, result)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	researchCmd.Flags().String("category", "", "appliance category (range, dishwasher, refrigerator, ...)")
	researchCmd.Flags().Bool("force-ai", false, "always run the AI extraction pass and prefer its result")
	_ = researchCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(researchCmd)
}
