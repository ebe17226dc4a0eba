package research

import (
	"strings"

	"github.com/keystone-claims/appliance-research/internal/extract"
	"github.com/keystone-claims/appliance-research/internal/model"
)

// ClassifySource maps a source domain to a confidence tier. Manufacturer
// domains rank high, major retailers medium, everything else low. The
// manufacturer list is checked first.
func ClassifySource(domain string) model.ConfidenceTier {
	lower := strings.ToLower(domain)

	for _, d := range extract.ManufacturerDomains() {
		if strings.Contains(lower, d) {
			return model.ConfidenceHigh
		}
	}

	for _, d := range extract.RetailerDomains() {
		if strings.Contains(lower, d) {
			return model.ConfidenceMedium
		}
	}

	return model.ConfidenceLow
}
