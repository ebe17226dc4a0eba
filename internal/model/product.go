package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the appliance class. It selects the keyword vocabulary and
// size-unit convention used during extraction and scoring. Unknown categories
// are handled generically (inch-based size, no keyword vocabulary).
type Category string

const (
	CategoryRange        Category = "range"
	CategoryOven         Category = "oven"
	CategoryCooktop      Category = "cooktop"
	CategoryDishwasher   Category = "dishwasher"
	CategoryRefrigerator Category = "refrigerator"
	CategoryMicrowave    Category = "microwave"
)

// NormalizeCategory lowercases and trims a caller-supplied category string.
func NormalizeCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// UsesFuel reports whether the category has a meaningful fuel type.
// Every other category carries the explicit "not applicable" sentinel,
// which downstream scoring treats differently from an absent fuel.
func (c Category) UsesFuel() bool {
	switch c {
	case CategoryRange, CategoryOven, CategoryCooktop:
		return true
	}
	return false
}

// Volumetric reports whether the category is sized by capacity (cubic feet)
// rather than width (inches).
func (c Category) Volumetric() bool {
	return c == CategoryRefrigerator
}

// FuelType is a resolved fuel/power value.
type FuelType string

const (
	FuelGas           FuelType = "gas"
	FuelElectric      FuelType = "electric"
	FuelDual          FuelType = "dual"
	FuelPropane       FuelType = "propane"
	FuelNotApplicable FuelType = "not applicable"
)

// ConfidenceTier is the coarse trust label for the source a specification
// was resolved from.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// ExtractionMethod tags which pass produced a specification.
type ExtractionMethod string

const (
	MethodRuleBased ExtractionMethod = "rule-based"
	MethodAI        ExtractionMethod = "ai"
)

// Availability is a candidate's stock status as advertised in the listing.
type Availability string

const (
	AvailabilityInStock      Availability = "in stock"
	AvailabilityLimitedStock Availability = "limited stock"
	AvailabilityOutOfStock   Availability = "out of stock"
	AvailabilityUnknown      Availability = "unknown"
)

// ProductSpecification is the structured description of one appliance.
// Optional fields are pointers so they serialize as explicit nulls; downstream
// consumers branch on field presence. Instances are constructed fresh per
// extraction attempt and never mutated after being returned.
type ProductSpecification struct {
	Category Category  `json:"type"`
	Size     *string   `json:"size"`
	Fuel     *FuelType `json:"fuel"`
	Features []string  `json:"features"`
}

// HasResolvedFuel reports whether the fuel field carries any resolved state,
// real value or the "not applicable" sentinel. A nil fuel means extraction
// found nothing.
func (s ProductSpecification) HasResolvedFuel() bool {
	return s.Fuel != nil
}

// HasRealFuel reports whether the fuel field carries an actual fuel value
// (not nil and not the "not applicable" sentinel).
func (s ProductSpecification) HasRealFuel() bool {
	return s.Fuel != nil && *s.Fuel != FuelNotApplicable
}

// ExtractionResult is the outcome of one specification resolution attempt.
// Exactly one of (Product with metadata) or (Error) is populated.
type ExtractionResult struct {
	Success          bool                  `json:"success"`
	Product          *ProductSpecification `json:"product"`
	Source           *string               `json:"source"`
	Confidence       *ConfidenceTier       `json:"confidence"`
	ExtractionMethod *ExtractionMethod     `json:"extraction_method"`
	Error            *string               `json:"error"`
}

// SuccessResult builds a successful ExtractionResult.
func SuccessResult(spec ProductSpecification, source string, tier ConfidenceTier, method ExtractionMethod) ExtractionResult {
	return ExtractionResult{
		Success:          true,
		Product:          &spec,
		Source:           &source,
		Confidence:       &tier,
		ExtractionMethod: &method,
	}
}

// FailureResult builds a failed ExtractionResult carrying a reason string.
func FailureResult(reason string) ExtractionResult {
	return ExtractionResult{Error: &reason}
}

// CandidateProduct is one replacement candidate extracted from a retail
// listing. Category is carried for scoring only and not serialized; the
// ranker forces it to the original's category before scoring.
type CandidateProduct struct {
	ProductName  string           `json:"product_name"`
	Brand        *string          `json:"brand"`
	Model        *string          `json:"model"`
	Price        *decimal.Decimal `json:"price"`
	Size         *string          `json:"size"`
	Fuel         *FuelType        `json:"fuel"`
	Features     []string         `json:"features"`
	URL          string           `json:"url"`
	Retailer     string           `json:"retailer"`
	Availability Availability     `json:"availability"`
	Category     Category         `json:"-"`
}

// MatchDetails explains a candidate's score.
type MatchDetails struct {
	SizeMatch        bool     `json:"size_match"`
	FuelMatch        bool     `json:"fuel_match"`
	FeaturesMatched  []string `json:"features_matched"`
	FeaturesMissing  []string `json:"features_missing"`
	PriceCompetitive bool     `json:"price_competitive"`
}

// MatchOutcome is one ranked replacement. Rank is dense and 1-based,
// assigned after the final sort and truncation.
type MatchOutcome struct {
	Rank int `json:"rank"`
	CandidateProduct
	MatchScore   int          `json:"match_score"`
	MatchDetails MatchDetails `json:"match_details"`
}

// SearchSummary counts the replacement search funnel.
type SearchSummary struct {
	RetailersSearched  int `json:"retailers_searched"`
	TotalProductsFound int `json:"total_products_found"`
	ViableMatches      int `json:"viable_matches"`
}

// OriginalProduct is the resolved original specification plus its identity,
// echoed back in replacement reports.
type OriginalProduct struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	ProductSpecification
}

// ReplacementReport is the full outcome of a replacement search.
type ReplacementReport struct {
	Success         bool            `json:"success"`
	SearchSummary   SearchSummary   `json:"search_summary"`
	OriginalProduct OriginalProduct `json:"original_product"`
	Replacements    []MatchOutcome  `json:"replacements"`
	Message         *string         `json:"message"`
}

// Ptr returns a pointer to v. Convenience for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
