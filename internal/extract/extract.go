// Package extract implements rule-based extraction of appliance
// specifications from free marketing/listing text. All extraction functions
// are total: no pattern match means an absent field, never an error.
package extract

import (
	"regexp"
	"strings"

	"github.com/keystone-claims/appliance-research/internal/model"
)

var (
	// inchPattern matches "30 inch", "24 in", `30"`.
	inchPattern = regexp.MustCompile(`(\d+)\s*(?:inch|in|")`)

	// cuftPattern matches "25 cu ft", "25 cu. ft.", "25.5 cubic feet".
	cuftPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:cu\.?\s*ft|cubic\s+feet)`)

	burnerPattern  = regexp.MustCompile(`(\d+)\s*burner`)
	decibelPattern = regexp.MustCompile(`(\d+)\s*(?:db|decibel)`)
)

// Size extracts a size string with units from text. Volumetric categories
// look for cubic feet first and fall back to inches (a refrigerator listing
// may advertise width instead of capacity); everything else uses inches.
// Only the first match in document order is taken.
func Size(text string, category model.Category) *string {
	lower := strings.ToLower(text)

	if category.Volumetric() {
		if m := cuftPattern.FindStringSubmatch(lower); m != nil {
			return model.Ptr(m[1] + " cubic feet")
		}
	}

	if m := inchPattern.FindStringSubmatch(lower); m != nil {
		return model.Ptr(m[1] + " inch")
	}

	return nil
}

// Fuel extracts a fuel/power type from text. Checks run in fixed priority
// order: "dual fuel" must win over a bare "gas" mention in the same text.
func Fuel(text string) *model.FuelType {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "dual fuel"):
		return model.Ptr(model.FuelDual)
	case strings.Contains(lower, "gas"):
		return model.Ptr(model.FuelGas)
	case strings.Contains(lower, "electric"), strings.Contains(lower, "induction"):
		return model.Ptr(model.FuelElectric)
	case strings.Contains(lower, "propane"):
		return model.Ptr(model.FuelPropane)
	}

	return nil
}

// Features extracts the category's keyword vocabulary from text via
// case-insensitive substring containment. Matches are normalized (hyphens
// become spaces) and deduplicated by normalized form, first-seen order
// preserved. Category-specific numeric features (burner count for ranges,
// decibel rating for dishwashers) are appended afterward.
func Features(text string, category model.Category) []string {
	lower := strings.ToLower(text)
	features := []string{}
	seen := make(map[string]bool)

	for _, kw := range FeatureKeywords(category) {
		if !strings.Contains(lower, kw) {
			continue
		}
		name := strings.ReplaceAll(kw, "-", " ")
		if !seen[name] {
			seen[name] = true
			features = append(features, name)
		}
	}

	switch category {
	case model.CategoryRange:
		if m := burnerPattern.FindStringSubmatch(lower); m != nil {
			f := m[1] + " burners"
			if !seen[f] {
				seen[f] = true
				features = append(features, f)
			}
		}
	case model.CategoryDishwasher:
		if m := decibelPattern.FindStringSubmatch(lower); m != nil {
			f := m[1] + " decibels"
			if !seen[f] {
				seen[f] = true
				features = append(features, f)
			}
		}
	}

	return features
}

// Specification runs all extractors over aggregated text for a category.
// Categories without a meaningful fuel type carry the explicit
// "not applicable" sentinel rather than absence.
func Specification(text string, category model.Category) model.ProductSpecification {
	spec := model.ProductSpecification{
		Category: category,
		Size:     Size(text, category),
		Features: Features(text, category),
	}

	if category.UsesFuel() {
		spec.Fuel = Fuel(text)
	} else {
		spec.Fuel = model.Ptr(model.FuelNotApplicable)
	}

	return spec
}
