// Package match scores candidate replacement products against an original
// specification and ranks the viable ones.
package match

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/keystone-claims/appliance-research/internal/model"
)

const (
	baseScore     = 100
	categoryBonus = 10

	// sizeTolerance is the largest size difference (in whole units) that
	// still earns a size-match bonus. Beyond it the candidate takes a heavy
	// penalty but is not disqualified outright.
	sizeTolerance = 2

	// minViableScore is the floor a candidate must reach to appear in
	// ranked output.
	minViableScore = 60

	// maxResults bounds the ranked output.
	maxResults = 10
)

var leadingIntPattern = regexp.MustCompile(`\d+`)

// leadingInt parses the first integer out of a size string like "30 inch".
// Unparseable strings count as 0.
func leadingInt(s string) int {
	n, _ := strconv.Atoi(leadingIntPattern.FindString(s))
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Score rates one candidate against the original specification. Pure and
// deterministic. A category mismatch is a hard disqualification: score 0 with
// a default detail record, regardless of every other field.
func Score(candidate model.CandidateProduct, original model.ProductSpecification) (int, model.MatchDetails) {
	details := model.MatchDetails{
		FeaturesMatched: []string{},
		FeaturesMissing: []string{},
	}

	if candidate.Category != original.Category {
		return 0, details
	}

	score := baseScore + categoryBonus

	if original.Size != nil && candidate.Size != nil {
		diff := abs(leadingInt(*original.Size) - leadingInt(*candidate.Size))
		switch {
		case diff == 0:
			score += 20
			details.SizeMatch = true
		case diff <= 1:
			score += 15
			details.SizeMatch = true
		case diff <= sizeTolerance:
			score += 10
			details.SizeMatch = true
		default:
			score -= 50
		}
	}

	// Fuel only matters when the original has a real fuel value. For
	// categories carrying the "not applicable" sentinel (or nothing at all)
	// the flag is set unconditionally and the score is untouched.
	if original.HasRealFuel() {
		if candidate.Fuel != nil && *candidate.Fuel == *original.Fuel {
			score += 20
			details.FuelMatch = true
		} else {
			score -= 50
		}
	} else {
		details.FuelMatch = true
	}

	candidateFeatures := make(map[string]bool, len(candidate.Features))
	for _, f := range candidate.Features {
		candidateFeatures[strings.ToLower(f)] = true
	}
	for _, f := range original.Features {
		if candidateFeatures[strings.ToLower(f)] {
			details.FeaturesMatched = append(details.FeaturesMatched, f)
		} else {
			details.FeaturesMissing = append(details.FeaturesMissing, f)
		}
	}
	score += 10 * len(details.FeaturesMatched)
	score -= 15 * len(details.FeaturesMissing)

	switch candidate.Availability {
	case model.AvailabilityInStock:
		score += 10
	case model.AvailabilityLimitedStock:
		score += 5
	case model.AvailabilityUnknown:
		score += 3
	}

	// Any parsed price earns a small bonus: a candidate with verifiable
	// pricing beats one without, independent of the amount.
	if candidate.Price != nil {
		score += 5
		details.PriceCompetitive = true
	}

	return score, details
}
