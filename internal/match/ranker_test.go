package match

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keystone-claims/appliance-research/internal/model"
	"github.com/keystone-claims/appliance-research/pkg/websearch"
)

type fakeSearch struct {
	mu        sync.Mutex
	responses map[string]*websearch.SearchResponse
	errs      map[string]error
	queries   []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ ...websearch.SearchOption) (*websearch.SearchResponse, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	for domain, err := range f.errs {
		if strings.Contains(query, domain) {
			return nil, err
		}
	}
	for domain, resp := range f.responses {
		if strings.Contains(query, domain) {
			return resp, nil
		}
	}
	return &websearch.SearchResponse{}, nil
}

func rangeOriginal() model.OriginalProduct {
	return model.OriginalProduct{
		Brand: "GE",
		Model: "JGB735SPSS",
		ProductSpecification: model.ProductSpecification{
			Category: model.CategoryRange,
			Size:     model.Ptr("30 inch"),
			Fuel:     model.Ptr(model.FuelGas),
			Features: []string{"convection", "air fry"},
		},
	}
}

func goodListing(price string) websearch.Result {
	return websearch.Result{
		Title:   "GE 30 inch Gas Range with Convection and Air Fry",
		Link:    "https://retailer.example/p/1",
		Snippet: fmt.Sprintf("%s In stock. Free delivery.", price),
	}
}

func TestFindReplacements_EndToEnd(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{
		responses: map[string]*websearch.SearchResponse{
			"homedepot.com": {Items: []websearch.Result{goodListing("$1,299.00")}},
			"lowes.com":     {Items: []websearch.Result{goodListing("$1,199.00")}},
		},
		errs: map[string]error{
			"bestbuy.com": eris.New("unreachable"),
		},
	}

	ranker := NewRanker(search)
	report := ranker.FindReplacements(context.Background(), rangeOriginal())

	assert.True(t, report.Success)
	// bestbuy failed, pcrichard returned nothing: neither counts as searched.
	assert.Equal(t, 2, report.SearchSummary.RetailersSearched)
	assert.Equal(t, 2, report.SearchSummary.TotalProductsFound)
	assert.Equal(t, 2, report.SearchSummary.ViableMatches)
	assert.Nil(t, report.Message)

	require.Len(t, report.Replacements, 2)
	// Equal scores: cheaper candidate first.
	assert.Equal(t, 1, report.Replacements[0].Rank)
	assert.Equal(t, 2, report.Replacements[1].Rank)
	require.NotNil(t, report.Replacements[0].Price)
	assert.True(t, report.Replacements[0].Price.LessThan(*report.Replacements[1].Price))
	assert.Equal(t, report.Replacements[0].MatchScore, report.Replacements[1].MatchScore)

	top := report.Replacements[0]
	require.NotNil(t, top.Brand)
	assert.Equal(t, "GE", *top.Brand)
	assert.Equal(t, model.AvailabilityInStock, top.Availability)
	assert.True(t, top.MatchDetails.SizeMatch)
	assert.True(t, top.MatchDetails.FuelMatch)
	assert.ElementsMatch(t, []string{"convection", "air fry"}, top.MatchDetails.FeaturesMatched)
}

func TestFindReplacements_QueryShape(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{}
	ranker := NewRanker(search, WithRetailers([]Retailer{{Name: "Home Depot", Domain: "homedepot.com"}}))
	ranker.FindReplacements(context.Background(), rangeOriginal())

	require.Len(t, search.queries, 1)
	assert.Equal(t, "site:homedepot.com range 30 inch gas convection air fry", search.queries[0])
}

func TestFindReplacements_TruncatesToTen(t *testing.T) {
	t.Parallel()

	items := make([]websearch.Result, 8)
	for i := range items {
		items[i] = goodListing(fmt.Sprintf("$%d.00", 1000+i))
	}
	search := &fakeSearch{
		responses: map[string]*websearch.SearchResponse{
			"homedepot.com": {Items: items},
			"lowes.com":     {Items: items},
		},
	}

	ranker := NewRanker(search)
	report := ranker.FindReplacements(context.Background(), rangeOriginal())

	assert.Equal(t, 16, report.SearchSummary.TotalProductsFound)
	assert.Equal(t, 16, report.SearchSummary.ViableMatches)
	require.Len(t, report.Replacements, 10)

	for i, m := range report.Replacements {
		assert.Equal(t, i+1, m.Rank)
	}
	for i := 1; i < len(report.Replacements); i++ {
		prev, cur := report.Replacements[i-1], report.Replacements[i]
		if prev.MatchScore == cur.MatchScore {
			assert.True(t, !priceLess(cur.Price, prev.Price), "tie-break order at %d", i)
		} else {
			assert.Greater(t, prev.MatchScore, cur.MatchScore)
		}
	}
}

func TestFindReplacements_NoneViable(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{
		responses: map[string]*websearch.SearchResponse{
			"homedepot.com": {Items: []websearch.Result{
				{Title: "24 inch electric wall unit", Link: "https://x/1", Snippet: "Out of stock"},
			}},
		},
	}

	ranker := NewRanker(search, WithRetailers([]Retailer{{Name: "Home Depot", Domain: "homedepot.com"}}))
	report := ranker.FindReplacements(context.Background(), rangeOriginal())

	assert.Equal(t, 1, report.SearchSummary.RetailersSearched)
	assert.Equal(t, 1, report.SearchSummary.TotalProductsFound)
	assert.Equal(t, 0, report.SearchSummary.ViableMatches)
	assert.Empty(t, report.Replacements)
	require.NotNil(t, report.Message)
	assert.Equal(t, msgNoneViable, *report.Message)
}

func TestFindReplacements_NoRawResults(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{
		errs: map[string]error{"homedepot.com": eris.New("timeout")},
	}

	ranker := NewRanker(search)
	report := ranker.FindReplacements(context.Background(), rangeOriginal())

	assert.Equal(t, 0, report.SearchSummary.RetailersSearched)
	assert.Equal(t, 0, report.SearchSummary.TotalProductsFound)
	assert.Empty(t, report.Replacements)
	require.NotNil(t, report.Message)
	assert.Equal(t, msgNoResults, *report.Message)
}

func TestFindReplacements_TimeoutIsNonFatal(t *testing.T) {
	t.Parallel()

	slow := &slowSearch{delay: 200 * time.Millisecond}
	ranker := NewRanker(slow,
		WithRetailers([]Retailer{{Name: "Home Depot", Domain: "homedepot.com"}}),
		WithSearchTimeout(10*time.Millisecond))

	report := ranker.FindReplacements(context.Background(), rangeOriginal())

	assert.True(t, report.Success)
	assert.Equal(t, 0, report.SearchSummary.RetailersSearched)
	assert.Empty(t, report.Replacements)
}

type slowSearch struct {
	delay time.Duration
}

func (s *slowSearch) Search(ctx context.Context, _ string, _ ...websearch.SearchOption) (*websearch.SearchResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.delay):
		return &websearch.SearchResponse{Items: []websearch.Result{goodListing("$1,299.00")}}, nil
	}
}

func TestPriceLess(t *testing.T) {
	t.Parallel()

	low := decimal.NewFromInt(999)
	high := decimal.NewFromInt(1299)

	assert.True(t, priceLess(&low, &high))
	assert.False(t, priceLess(&high, &low))
	assert.True(t, priceLess(&low, nil))
	assert.False(t, priceLess(nil, &low))
	assert.False(t, priceLess(nil, nil))
}

func TestBuildQuery_OmitsAbsentFields(t *testing.T) {
	t.Parallel()

	original := model.OriginalProduct{
		ProductSpecification: model.ProductSpecification{
			Category: model.CategoryDishwasher,
			Fuel:     model.Ptr(model.FuelNotApplicable),
			Features: []string{"quiet", "third rack", "sanitize"},
		},
	}

	query := buildQuery("lowes.com", original)
	assert.Equal(t, "site:lowes.com dishwasher quiet third rack", query)
}

func TestApplyFilters_BrandForBrand(t *testing.T) {
	t.Parallel()

	report := model.ReplacementReport{
		Replacements: []model.MatchOutcome{
			{Rank: 1, CandidateProduct: model.CandidateProduct{Brand: model.Ptr("Samsung")}},
			{Rank: 2, CandidateProduct: model.CandidateProduct{Brand: model.Ptr("ge")}},
			{Rank: 3, CandidateProduct: model.CandidateProduct{Brand: nil}},
			{Rank: 4, CandidateProduct: model.CandidateProduct{Brand: model.Ptr("GE")}},
		},
	}

	got := ApplyFilters(report, "GE", Filters{BrandForBrand: true})

	require.Len(t, got.Replacements, 2)
	assert.Equal(t, 1, got.Replacements[0].Rank)
	assert.Equal(t, "ge", *got.Replacements[0].Brand)
	assert.Equal(t, 2, got.Replacements[1].Rank)
	assert.Equal(t, "GE", *got.Replacements[1].Brand)
}

func TestApplyFilters_DollarLimit(t *testing.T) {
	t.Parallel()

	limit := decimal.NewFromInt(1200)
	report := model.ReplacementReport{
		Replacements: []model.MatchOutcome{
			{Rank: 1, CandidateProduct: model.CandidateProduct{Price: price("1500")}},
			{Rank: 2, CandidateProduct: model.CandidateProduct{Price: price("1200")}},
			{Rank: 3, CandidateProduct: model.CandidateProduct{Price: nil}},
			{Rank: 4, CandidateProduct: model.CandidateProduct{Price: price("999.99")}},
		},
	}

	got := ApplyFilters(report, "GE", Filters{DollarLimit: &limit})

	require.Len(t, got.Replacements, 2)
	assert.Equal(t, 1, got.Replacements[0].Rank)
	assert.True(t, got.Replacements[0].Price.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, 2, got.Replacements[1].Rank)
}

func TestApplyFilters_NoFiltersIsIdentity(t *testing.T) {
	t.Parallel()

	report := model.ReplacementReport{
		Replacements: []model.MatchOutcome{
			{Rank: 1, CandidateProduct: model.CandidateProduct{Brand: model.Ptr("Samsung")}},
		},
	}

	got := ApplyFilters(report, "GE", Filters{})
	assert.Equal(t, report, got)
}
