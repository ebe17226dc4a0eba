package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/keystone-claims/appliance-research/internal/model"
)

var (
	// pricePatterns match "$1,299.99", "$1299" and "1299.99 dollars" / "USD".
	pricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
		regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*(?:dollars?|USD)`),
	}

	// modelNumberPattern matches alphanumeric appliance model identifiers
	// like "JGB735SPSS".
	modelNumberPattern = regexp.MustCompile(`\b([A-Z]{2,}[0-9]{3,}[A-Z0-9]*)\b`)
)

// Price extracts the first price mention from text as a decimal value.
func Price(text string) *decimal.Decimal {
	for _, p := range pricePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return &d
	}
	return nil
}

// Brand extracts the first known brand mentioned in text. Matching is
// whole-word and case-insensitive; the canonical table spelling is returned.
func Brand(text string) *string {
	brands := KnownBrands()
	for i, p := range loadBrandPatterns() {
		if p.MatchString(text) {
			return model.Ptr(brands[i])
		}
	}
	return nil
}

// ModelNumber extracts an appliance model identifier from text.
func ModelNumber(text string) *string {
	if m := modelNumberPattern.FindStringSubmatch(text); m != nil {
		return model.Ptr(m[1])
	}
	return nil
}

// StockStatus extracts an availability tag from listing text. Negative
// phrasing is checked first so "unavailable" cannot satisfy the "available"
// substring check.
func StockStatus(text string) model.Availability {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "out of stock"), strings.Contains(lower, "unavailable"):
		return model.AvailabilityOutOfStock
	case strings.Contains(lower, "in stock"), strings.Contains(lower, "available"):
		return model.AvailabilityInStock
	case strings.Contains(lower, "limited"), strings.Contains(lower, "few left"):
		return model.AvailabilityLimitedStock
	}

	return model.AvailabilityUnknown
}

// ListingFeatures extracts the generic retail-listing feature vocabulary
// plus a burner count, deduplicated in first-seen order.
func ListingFeatures(text string) []string {
	lower := strings.ToLower(text)
	features := []string{}
	seen := make(map[string]bool)

	for _, kw := range ListingFeatureKeywords() {
		if !strings.Contains(lower, kw) {
			continue
		}
		name := strings.ReplaceAll(kw, "-", " ")
		if !seen[name] {
			seen[name] = true
			features = append(features, name)
		}
	}

	if m := burnerPattern.FindStringSubmatch(lower); m != nil {
		f := m[1] + " burners"
		if !seen[f] {
			features = append(features, f)
		}
	}

	return features
}

// Candidate extracts a structured replacement candidate from one retail
// search listing. Best-effort like every extractor here: fields the listing
// doesn't mention stay absent.
func Candidate(title, snippet, url, retailer string, category model.Category) model.CandidateProduct {
	combined := title + " " + snippet

	return model.CandidateProduct{
		ProductName:  title,
		Brand:        Brand(combined),
		Model:        ModelNumber(combined),
		Price:        Price(combined),
		Size:         Size(combined, category),
		Fuel:         Fuel(combined),
		Features:     ListingFeatures(combined),
		URL:          url,
		Retailer:     retailer,
		Availability: StockStatus(combined),
		Category:     category,
	}
}
