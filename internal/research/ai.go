package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/keystone-claims/appliance-research/internal/model"
	"github.com/keystone-claims/appliance-research/pkg/anthropic"
	"github.com/keystone-claims/appliance-research/pkg/websearch"
)

const aiSystemPrompt = "You are an appliance specification extraction assistant. " +
	"You respond with a single JSON object and no other text."

// maxPromptResults caps how many search results are included in the
// extraction prompt.
const maxPromptResults = 5

// aiPayload is the JSON shape the model is instructed to return.
type aiPayload struct {
	Size     *string  `json:"size"`
	Fuel     *string  `json:"fuel"`
	Features []string `json:"features"`
}

func buildExtractionPrompt(items []websearch.Result, category model.Category) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Extract the %s specification from these search results.\n\n", category)

	n := len(items)
	if n > maxPromptResults {
		n = maxPromptResults
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "Result %d:\nTitle: %s\nSnippet: %s\n\n", i+1, items[i].Title, items[i].Snippet)
	}

	sb.WriteString(`Return only a JSON object of the shape {"size": string|null, "fuel": string|null, "features": string[]}. ` +
		`Size must include a unit suffix such as "30 inch" or "25 cubic feet". ` +
		`Fuel is one of gas, electric, dual, propane, or null if unknown. ` +
		`Features are short lowercase phrases.`)

	return sb.String()
}

// stripCodeFence removes a single leading/trailing markdown code fence,
// including a language tag on the opening fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseFuel maps a model-reported fuel string to a FuelType, or nil when the
// string is not recognized.
func parseFuel(s string) *model.FuelType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gas":
		return model.Ptr(model.FuelGas)
	case "electric", "induction":
		return model.Ptr(model.FuelElectric)
	case "dual", "dual fuel":
		return model.Ptr(model.FuelDual)
	case "propane":
		return model.Ptr(model.FuelPropane)
	case "not applicable", "n/a", "na":
		return model.Ptr(model.FuelNotApplicable)
	}
	return nil
}

// aiExtract asks the language model to extract a specification from the
// search results. Returns an error for any unusable response; callers treat
// that as "AI unavailable" and keep the rule-based result.
func (r *Resolver) aiExtract(ctx context.Context, items []websearch.Result, category model.Category) (*model.ProductSpecification, error) {
	ctx, cancel := context.WithTimeout(ctx, r.aiTimeout)
	defer cancel()

	resp, err := r.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       r.aiModel,
		MaxTokens:   1024,
		System:      []anthropic.SystemBlock{{Text: aiSystemPrompt}},
		Messages:    []anthropic.Message{{Role: "user", Content: buildExtractionPrompt(items, category)}},
		Temperature: model.Ptr(0.0),
	})
	if err != nil {
		return nil, eris.Wrap(err, "research: ai extraction call")
	}

	raw := stripCodeFence(resp.Text())
	if raw == "" {
		return nil, eris.New("research: empty ai response")
	}

	var payload aiPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, eris.Wrap(err, "research: parse ai response")
	}

	spec := model.ProductSpecification{
		Category: category,
		Size:     payload.Size,
		Features: normalizeFeatures(payload.Features),
	}

	if category.UsesFuel() {
		if payload.Fuel != nil {
			spec.Fuel = parseFuel(*payload.Fuel)
		}
	} else {
		spec.Fuel = model.Ptr(model.FuelNotApplicable)
	}

	return &spec, nil
}

// normalizeFeatures lowercases, trims and deduplicates the model's feature
// list, first-seen order preserved.
func normalizeFeatures(features []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, f := range features {
		name := strings.ToLower(strings.TrimSpace(f))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
