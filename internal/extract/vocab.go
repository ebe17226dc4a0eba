package extract

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/keystone-claims/appliance-research/internal/model"
)

//go:embed vocab.yaml
var vocabYAML []byte

// vocabulary holds the fixed keyword tables. It is parsed from the embedded
// YAML exactly once and treated as immutable afterwards.
type vocabulary struct {
	Features            map[string][]string `yaml:"features"`
	ListingFeatures     []string            `yaml:"listing_features"`
	Brands              []string            `yaml:"brands"`
	ManufacturerDomains []string            `yaml:"manufacturer_domains"`
	RetailerDomains     []string            `yaml:"retailer_domains"`
}

var loadVocab = sync.OnceValue(func() *vocabulary {
	var v vocabulary
	if err := yaml.Unmarshal(vocabYAML, &v); err != nil {
		panic(fmt.Sprintf("extract: parse embedded vocab.yaml: %v", err))
	}
	return &v
})

// brandPatterns are word-boundary matchers built from the brand table, so
// that "GE" does not match inside "range". Explicit non-word classes are used
// instead of \b because brand names may end in non-ASCII letters ("Café"),
// where RE2's ASCII \b inverts.
var loadBrandPatterns = sync.OnceValue(func() []*regexp.Regexp {
	brands := loadVocab().Brands
	patterns := make([]*regexp.Regexp, len(brands))
	for i, b := range brands {
		patterns[i] = regexp.MustCompile(`(?i)(?:^|[^\w])` + regexp.QuoteMeta(b) + `(?:[^\w]|$)`)
	}
	return patterns
})

// FeatureKeywords returns the feature vocabulary for a category. Categories
// without a vocabulary (oven, cooktop, anything unknown) get none.
func FeatureKeywords(category model.Category) []string {
	return loadVocab().Features[string(category)]
}

// ListingFeatureKeywords returns the generic per-listing feature vocabulary.
func ListingFeatureKeywords() []string {
	return loadVocab().ListingFeatures
}

// KnownBrands returns the fixed brand table.
func KnownBrands() []string {
	return loadVocab().Brands
}

// ManufacturerDomains returns the high-confidence domain allow-list.
func ManufacturerDomains() []string {
	return loadVocab().ManufacturerDomains
}

// RetailerDomains returns the medium-confidence domain allow-list.
func RetailerDomains() []string {
	return loadVocab().RetailerDomains
}
