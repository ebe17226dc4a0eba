package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/keystone-claims/appliance-research/internal/match"
	"github.com/keystone-claims/appliance-research/internal/model"
)

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Rank in-market replacement candidates against a known specification",
	Long: `Searches the configured retailers for candidates matching the given
specification, scores each against it, and prints the ranked viable matches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("replace"); err != nil {
			return err
		}

		req, err := replacementRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		original := req.original()
		filters, err := req.filters()
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		ranker := newRanker(newSearchClient())
		report := ranker.FindReplacements(ctx, original)
		report = match.ApplyFilters(report, original.Brand, filters)

		saveRun(ctx, st, model.RunKindReplacement, req, report)

		printSearchSummary(report)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

// replacementRequestFromFlags assembles the request value from the replace
// command's flags.
func replacementRequestFromFlags(cmd *cobra.Command) (replacementRequest, error) {
	brand, _ := cmd.Flags().GetString("brand")
	modelNumber, _ := cmd.Flags().GetString("model")
	category, _ := cmd.Flags().GetString("category")
	size, _ := cmd.Flags().GetString("size")
	fuel, _ := cmd.Flags().GetString("fuel")
	features, _ := cmd.Flags().GetStringSlice("features")
	brandForBrand, _ := cmd.Flags().GetBool("brand-for-brand")
	dollarLimit, _ := cmd.Flags().GetString("dollar-limit")

	req := replacementRequest{
		Brand:         brand,
		Model:         modelNumber,
		Type:          category,
		Features:      features,
		BrandForBrand: brandForBrand,
	}
	if size != "" {
		req.Size = &size
	}
	if fuel != "" {
		req.Fuel = &fuel
	}
	if dollarLimit != "" {
		if _, err := decimal.NewFromString(dollarLimit); err != nil {
			return replacementRequest{}, eris.Wrap(err, "parse dollar-limit")
		}
		req.DollarLimit = &dollarLimit
	}
	return req, nil
}

// printSearchSummary writes a short human-readable funnel summary to stderr,
// keeping stdout clean JSON.
func printSearchSummary(report model.ReplacementReport) {
	p := message.NewPrinter(language.English)
	s := report.SearchSummary
	p.Fprintf(os.Stderr, "Searched %d retailers, found %d products, %d viable matches\n",
		s.RetailersSearched, s.TotalProductsFound, s.ViableMatches)
}

func init() {
	replaceCmd.Flags().String("brand", "", "original product brand")
	replaceCmd.Flags().String("model", "", "original product model number")
	replaceCmd.Flags().String("category", "", "appliance category (range, dishwasher, refrigerator, ...)")
	replaceCmd.Flags().String("size", "", "original size, e.g. \"30 inch\" or \"25 cubic feet\"")
	replaceCmd.Flags().String("fuel", "", "original fuel type (gas, electric, dual, propane)")
	replaceCmd.Flags().StringSlice("features", nil, "original feature list")
	replaceCmd.Flags().Bool("brand-for-brand", false, "keep only same-brand replacements")
	replaceCmd.Flags().String("dollar-limit", "", "keep only replacements priced at or below this amount")
	_ = replaceCmd.MarkFlagRequired("brand")
	_ = replaceCmd.MarkFlagRequired("model")
	_ = replaceCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(replaceCmd)
}
