package match

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/keystone-claims/appliance-research/internal/extract"
	"github.com/keystone-claims/appliance-research/internal/model"
	"github.com/keystone-claims/appliance-research/pkg/websearch"
)

// Retailer is one retail source to search for replacement candidates.
type Retailer struct {
	Name   string
	Domain string
}

// DefaultRetailers is the default source table.
var DefaultRetailers = []Retailer{
	{Name: "Home Depot", Domain: "homedepot.com"},
	{Name: "Lowe's", Domain: "lowes.com"},
	{Name: "Best Buy", Domain: "bestbuy.com"},
	{Name: "P.C. Richard & Son", Domain: "pcrichard.com"},
}

const (
	msgNoneViable = "No suitable replacements found. The original product's specifications may be too specific, or the search criteria too narrow."
	msgNoResults  = "No products found at the searched retailers. Try broadening the search criteria."
)

// Ranker searches the retailer table for candidates, scores them against the
// original specification, and returns the ranked viable matches.
type Ranker struct {
	search        websearch.Client
	retailers     []Retailer
	maxConcurrent int
	searchTimeout time.Duration
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithRetailers overrides the retailer table.
func WithRetailers(retailers []Retailer) RankerOption {
	return func(r *Ranker) {
		if len(retailers) > 0 {
			r.retailers = retailers
		}
	}
}

// WithMaxConcurrent bounds the retailer fan-out.
func WithMaxConcurrent(n int) RankerOption {
	return func(r *Ranker) {
		if n > 0 {
			r.maxConcurrent = n
		}
	}
}

// WithSearchTimeout overrides the per-retailer search timeout.
func WithSearchTimeout(d time.Duration) RankerOption {
	return func(r *Ranker) {
		r.searchTimeout = d
	}
}

// NewRanker creates a Ranker backed by the given search client.
func NewRanker(search websearch.Client, opts ...RankerOption) *Ranker {
	r := &Ranker{
		search:        search,
		retailers:     DefaultRetailers,
		maxConcurrent: 4,
		searchTimeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// retailerBatch is the outcome of searching one retailer.
type retailerBatch struct {
	searched   bool
	candidates []model.CandidateProduct
}

// FindReplacements searches every retailer concurrently, scores each
// extracted candidate, and assembles the ranked report. A failed or
// timed-out retailer contributes nothing and is not counted as searched.
func (r *Ranker) FindReplacements(ctx context.Context, original model.OriginalProduct) model.ReplacementReport {
	batches := make([]retailerBatch, len(r.retailers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)

	for i, retailer := range r.retailers {
		i, retailer := i, retailer
		g.Go(func() error {
			batches[i] = r.searchRetailer(gctx, retailer, original)
			return nil
		})
	}
	_ = g.Wait()

	summary := model.SearchSummary{}
	viable := []model.MatchOutcome{}

	for _, batch := range batches {
		if !batch.searched {
			continue
		}
		summary.RetailersSearched++
		summary.TotalProductsFound += len(batch.candidates)

		for _, candidate := range batch.candidates {
			score, details := Score(candidate, original.ProductSpecification)
			if score < minViableScore {
				continue
			}
			viable = append(viable, model.MatchOutcome{
				CandidateProduct: candidate,
				MatchScore:       score,
				MatchDetails:     details,
			})
		}
	}
	summary.ViableMatches = len(viable)

	sort.SliceStable(viable, func(i, j int) bool {
		if viable[i].MatchScore != viable[j].MatchScore {
			return viable[i].MatchScore > viable[j].MatchScore
		}
		return priceLess(viable[i].Price, viable[j].Price)
	})

	if len(viable) > maxResults {
		viable = viable[:maxResults]
	}
	for i := range viable {
		viable[i].Rank = i + 1
	}

	report := model.ReplacementReport{
		Success:         true,
		SearchSummary:   summary,
		OriginalProduct: original,
		Replacements:    viable,
	}

	if len(viable) == 0 {
		if summary.TotalProductsFound > 0 {
			report.Message = model.Ptr(msgNoneViable)
		} else {
			report.Message = model.Ptr(msgNoResults)
		}
	}

	return report
}

// searchRetailer queries one retailer and extracts candidates from its raw
// listings. The extracted category is always forced to the original's: retail
// listings don't reliably state the category field.
func (r *Ranker) searchRetailer(ctx context.Context, retailer Retailer, original model.OriginalProduct) retailerBatch {
	ctx, cancel := context.WithTimeout(ctx, r.searchTimeout)
	defer cancel()

	query := buildQuery(retailer.Domain, original)

	resp, err := r.search.Search(ctx, query, websearch.WithNumResults(10))
	if err != nil {
		zap.L().Warn("match: retailer search failed",
			zap.String("retailer", retailer.Name),
			zap.String("query", query),
			zap.Error(err))
		return retailerBatch{}
	}
	if len(resp.Items) == 0 {
		zap.L().Debug("match: retailer returned no results",
			zap.String("retailer", retailer.Name),
			zap.String("query", query))
		return retailerBatch{}
	}

	candidates := make([]model.CandidateProduct, 0, len(resp.Items))
	for _, item := range resp.Items {
		candidates = append(candidates, extract.Candidate(item.Title, item.Snippet, item.Link, retailer.Name, original.Category))
	}

	return retailerBatch{searched: true, candidates: candidates}
}

// buildQuery assembles a retailer-scoped search query from the original's
// category, size, fuel, and its two most salient features.
func buildQuery(domain string, original model.OriginalProduct) string {
	parts := []string{"site:" + domain, string(original.Category)}

	if original.Size != nil {
		parts = append(parts, *original.Size)
	}
	if original.HasRealFuel() {
		parts = append(parts, string(*original.Fuel))
	}
	for i, f := range original.Features {
		if i >= 2 {
			break
		}
		parts = append(parts, f)
	}

	return strings.Join(parts, " ")
}

// priceLess orders candidate prices ascending with absent prices last.
func priceLess(a, b *decimal.Decimal) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.LessThan(*b)
	}
}

// Filters are the optional post-rank constraints a caller may apply.
type Filters struct {
	// BrandForBrand keeps only candidates whose extracted brand equals the
	// original's brand, case-insensitively.
	BrandForBrand bool
	// DollarLimit keeps only candidates with a parsed price at or below the
	// limit. Candidates without a price are dropped.
	DollarLimit *decimal.Decimal
}

// ApplyFilters narrows a ranked report and renumbers the surviving ranks
// densely from 1. The search summary is left describing the unfiltered
// search.
func ApplyFilters(report model.ReplacementReport, originalBrand string, f Filters) model.ReplacementReport {
	if !f.BrandForBrand && f.DollarLimit == nil {
		return report
	}

	out := []model.MatchOutcome{}
	for _, m := range report.Replacements {
		if f.BrandForBrand && (m.Brand == nil || !strings.EqualFold(*m.Brand, originalBrand)) {
			continue
		}
		if f.DollarLimit != nil && (m.Price == nil || m.Price.GreaterThan(*f.DollarLimit)) {
			continue
		}
		out = append(out, m)
	}
	for i := range out {
		out[i].Rank = i + 1
	}

	report.Replacements = out
	return report
}
