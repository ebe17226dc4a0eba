package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/keystone-claims/appliance-research/internal/match"
	"github.com/keystone-claims/appliance-research/internal/model"
	"github.com/keystone-claims/appliance-research/internal/research"
)

var completeCmd = &cobra.Command{
	Use:   "complete <brand> <model>",
	Short: "Research a specification, then rank replacements against it",
	Long: `Resolves the original product's specification from web search, then
searches the configured retailers and ranks replacement candidates against
the resolved specification. If research fails, the output carries a stage
label naming the failed step.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("complete"); err != nil {
			return err
		}

		category, _ := cmd.Flags().GetString("category")
		forceAI, _ := cmd.Flags().GetBool("force-ai")
		brandForBrand, _ := cmd.Flags().GetBool("brand-for-brand")
		dollarLimit, _ := cmd.Flags().GetString("dollar-limit")

		req := completeRequest{
			Brand:         args[0],
			Model:         args[1],
			ApplianceType: category,
			ForceAI:       forceAI,
			BrandForBrand: brandForBrand,
		}
		if dollarLimit != "" {
			req.DollarLimit = &dollarLimit
		}

		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		search := newSearchClient()
		result, err := runComplete(ctx, newResolver(search), newRanker(search), req)
		if err != nil {
			return err
		}

		saveRun(ctx, st, model.RunKindComplete, req, result)

		if result.Replacements != nil {
			printSearchSummary(*result.Replacements)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// runComplete executes the two-step workflow: resolve the original's
// specification, then rank replacements against it. A research failure stops
// the workflow with a stage label; the returned error is reserved for
// malformed input.
func runComplete(ctx context.Context, resolver *research.Resolver, ranker *match.Ranker, req completeRequest) (completeResult, error) {
	extraction := resolver.Research(ctx, req.Brand, req.Model, model.NormalizeCategory(req.ApplianceType), req.ForceAI)
	if !extraction.Success {
		return completeResult{
			Stage:    model.Ptr("research"),
			Error:    extraction.Error,
			Research: extraction,
		}, nil
	}

	original := model.OriginalProduct{
		Brand:                req.Brand,
		Model:                req.Model,
		ProductSpecification: *extraction.Product,
	}

	filters, err := replacementRequest{
		BrandForBrand: req.BrandForBrand,
		DollarLimit:   req.DollarLimit,
	}.filters()
	if err != nil {
		return completeResult{}, err
	}

	report := ranker.FindReplacements(ctx, original)
	report = match.ApplyFilters(report, original.Brand, filters)

	return completeResult{
		Success:      true,
		Research:     extraction,
		Replacements: &report,
	}, nil
}

func init() {
	completeCmd.Flags().String("category", "", "appliance category (range, dishwasher, refrigerator, ...)")
	completeCmd.Flags().Bool("force-ai", false, "always run the AI extraction pass and prefer its result")
	completeCmd.Flags().Bool("brand-for-brand", false, "keep only same-brand replacements")
	completeCmd.Flags().String("dollar-limit", "", "keep only replacements priced at or below this amount")
	_ = completeCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(completeCmd)
}
