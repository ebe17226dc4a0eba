// Package research resolves an appliance's structured specification from web
// search results, with an AI-assisted fallback pass when rule-based
// extraction is low quality.
package research

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/keystone-claims/appliance-research/internal/extract"
	"github.com/keystone-claims/appliance-research/internal/model"
	"github.com/keystone-claims/appliance-research/pkg/anthropic"
	"github.com/keystone-claims/appliance-research/pkg/websearch"
)

// defaultQualityThreshold is the rule-based extraction quality below which
// the AI-assisted pass runs.
const defaultQualityThreshold = 0.7

// Resolver orchestrates specification extraction for one product.
type Resolver struct {
	search websearch.Client
	ai     anthropic.Client

	useAI            bool
	qualityThreshold float64
	aiModel          string
	searchTimeout    time.Duration
	aiTimeout        time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAI enables the AI-assisted extraction fallback using the given client
// and model identifier.
func WithAI(client anthropic.Client, modelID string) Option {
	return func(r *Resolver) {
		r.ai = client
		r.aiModel = modelID
		r.useAI = client != nil
	}
}

// WithQualityThreshold overrides the AI-fallback quality threshold.
func WithQualityThreshold(t float64) Option {
	return func(r *Resolver) {
		r.qualityThreshold = t
	}
}

// WithTimeouts overrides the per-call search and AI timeouts.
func WithTimeouts(search, ai time.Duration) Option {
	return func(r *Resolver) {
		r.searchTimeout = search
		r.aiTimeout = ai
	}
}

// NewResolver creates a Resolver backed by the given search client.
func NewResolver(search websearch.Client, opts ...Option) *Resolver {
	r := &Resolver{
		search:           search,
		qualityThreshold: defaultQualityThreshold,
		searchTimeout:    10 * time.Second,
		aiTimeout:        30 * time.Second,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Research resolves the specification for one product identified by brand and
// model number. Resolution failure is reported in the result, not as an
// error: the only terminal failure is the absence of usable search results.
// AI-path failures degrade silently to the rule-based result.
func (r *Resolver) Research(ctx context.Context, brand, modelNumber string, category model.Category, forceAI bool) model.ExtractionResult {
	query := fmt.Sprintf("%s %s specifications", brand, modelNumber)

	searchCtx, cancel := context.WithTimeout(ctx, r.searchTimeout)
	defer cancel()

	resp, err := r.search.Search(searchCtx, query, websearch.WithNumResults(10))
	if err != nil {
		zap.L().Warn("research: search failed",
			zap.String("query", query),
			zap.Error(err))
	}
	if err != nil || resp == nil || len(resp.Items) == 0 {
		return model.FailureResult(fmt.Sprintf("no search results found for %s %s", brand, modelNumber))
	}

	var sb strings.Builder
	for _, item := range resp.Items {
		sb.WriteString(" ")
		sb.WriteString(item.Title)
		sb.WriteString(" ")
		sb.WriteString(item.Snippet)
	}
	text := sb.String()

	spec := extract.Specification(text, category)
	quality := extract.Quality(spec)
	method := model.MethodRuleBased

	if r.useAI && (forceAI || quality < r.qualityThreshold) {
		aiSpec, aiErr := r.aiExtract(ctx, resp.Items, category)
		if aiErr != nil {
			zap.L().Warn("research: ai extraction unavailable, keeping rule-based result",
				zap.String("query", query),
				zap.Error(aiErr))
		} else {
			spec, method = chooseSpec(spec, quality, aiSpec, extract.Quality(*aiSpec), forceAI)
		}
	}

	domain := sourceDomain(resp.Items[0].Link)
	tier := ClassifySource(domain)

	zap.L().Debug("research: resolved specification",
		zap.String("query", query),
		zap.String("domain", domain),
		zap.String("confidence", string(tier)),
		zap.String("method", string(method)),
		zap.Float64("quality", extract.Quality(spec)))

	return model.SuccessResult(spec, domain, tier, method)
}

// chooseSpec picks between the rule-based and AI-derived specifications.
// The AI result wins only when its quality strictly exceeds the rule-based
// quality, or when the caller forced the AI path.
func chooseSpec(ruleSpec model.ProductSpecification, ruleQuality float64, aiSpec *model.ProductSpecification, aiQuality float64, forceAI bool) (model.ProductSpecification, model.ExtractionMethod) {
	if aiSpec == nil {
		return ruleSpec, model.MethodRuleBased
	}
	if forceAI || aiQuality > ruleQuality {
		return *aiSpec, model.MethodAI
	}
	return ruleSpec, model.MethodRuleBased
}

// sourceDomain extracts the hostname from a result URL, falling back to the
// raw string when it does not parse.
func sourceDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}
