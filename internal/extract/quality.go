package extract

import "github.com/keystone-claims/appliance-research/internal/model"

// Quality scores an extracted specification for completeness on a 0.0-1.0
// scale. A resolved fuel state counts whether it is a real value or the
// explicit "not applicable" sentinel; a silently absent fuel does not.
// The bands sum to at most 1.0 by construction.
func Quality(spec model.ProductSpecification) float64 {
	score := 0.0

	if spec.Size != nil {
		score += 0.3
	}

	if spec.HasResolvedFuel() {
		score += 0.2
	}

	switch n := len(spec.Features); {
	case n >= 5:
		score += 0.5
	case n >= 3:
		score += 0.3
	case n >= 1:
		score += 0.1
	}

	return score
}
