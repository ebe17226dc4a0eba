package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keystone-claims/appliance-research/internal/model"
	"github.com/keystone-claims/appliance-research/pkg/websearch"
)

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"size": null}`, `{"size": null}`},
		{"plain fence", "```\n{\"size\": null}\n```", `{"size": null}`},
		{"json tagged fence", "```json\n{\"size\": null}\n```", `{"size": null}`},
		{"single line fence", "```{\"size\": null}```", `{"size": null}`},
		{"surrounding whitespace", "  ```json\n{}\n```  ", "{}"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}

func TestParseFuel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want *model.FuelType
	}{
		{"gas", model.Ptr(model.FuelGas)},
		{"GAS", model.Ptr(model.FuelGas)},
		{" electric ", model.Ptr(model.FuelElectric)},
		{"induction", model.Ptr(model.FuelElectric)},
		{"dual", model.Ptr(model.FuelDual)},
		{"dual fuel", model.Ptr(model.FuelDual)},
		{"propane", model.Ptr(model.FuelPropane)},
		{"not applicable", model.Ptr(model.FuelNotApplicable)},
		{"n/a", model.Ptr(model.FuelNotApplicable)},
		{"plutonium", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := parseFuel(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, *tt.want, *got, "input %q", tt.in)
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	t.Parallel()

	items := make([]websearch.Result, 8)
	for i := range items {
		items[i] = websearch.Result{Title: "Title", Snippet: "Snippet"}
	}

	prompt := buildExtractionPrompt(items, model.CategoryDishwasher)

	assert.Contains(t, prompt, "dishwasher")
	assert.Contains(t, prompt, "Result 5:")
	assert.NotContains(t, prompt, "Result 6:")
	assert.Contains(t, prompt, `{"size": string|null, "fuel": string|null, "features": string[]}`)
}

func TestNormalizeFeatures(t *testing.T) {
	t.Parallel()

	got := normalizeFeatures([]string{" Convection ", "convection", "AIR FRY", "", "griddle"})
	assert.Equal(t, []string{"convection", "air fry", "griddle"}, got)
}

func TestClassifySource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.ConfidenceHigh, ClassifySource("www.geappliances.com"))
	assert.Equal(t, model.ConfidenceHigh, ClassifySource("WHIRLPOOL.COM"))
	assert.Equal(t, model.ConfidenceMedium, ClassifySource("www.homedepot.com"))
	assert.Equal(t, model.ConfidenceMedium, ClassifySource("bestbuy.com"))
	assert.Equal(t, model.ConfidenceLow, ClassifySource("applianceblog.example.org"))
	assert.Equal(t, model.ConfidenceLow, ClassifySource(""))
}
