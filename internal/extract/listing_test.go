package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keystone-claims/appliance-research/internal/model"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"dollar sign with cents", "now $1,299.99 at checkout", "1299.99"},
		{"dollar sign no cents", "only $849", "849"},
		{"spaced dollar sign", "$ 1,199.00", "1199"},
		{"dollars suffix", "yours for 999.99 dollars", "999.99"},
		{"usd suffix", "999 USD", "999"},
		{"first price wins", "$599 was $799", "599"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Price(tt.text)
			require.NotNil(t, got)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestPrice_NoMatch(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Price("call for pricing"))
	assert.Nil(t, Price(""))
}

func TestBrand(t *testing.T) {
	t.Parallel()

	got := Brand("GE Profile 30 inch range")
	require.NotNil(t, got)
	assert.Equal(t, "GE", *got)

	got = Brand("whirlpool dishwasher")
	require.NotNil(t, got)
	assert.Equal(t, "Whirlpool", *got)

	got = Brand("The Café CGB500 series")
	require.NotNil(t, got)
	assert.Equal(t, "Café", *got)
}

func TestBrand_WholeWordOnly(t *testing.T) {
	t.Parallel()

	// "GE" must not match inside "range" or "LARGE".
	assert.Nil(t, Brand("a large freestanding range"))
	assert.Nil(t, Brand(""))
}

func TestModelNumber(t *testing.T) {
	t.Parallel()

	got := ModelNumber("GE JGB735SPSS 30 inch range")
	require.NotNil(t, got)
	assert.Equal(t, "JGB735SPSS", *got)

	got = ModelNumber("Whirlpool WDT750SAKZ dishwasher")
	require.NotNil(t, got)
	assert.Equal(t, "WDT750SAKZ", *got)

	assert.Nil(t, ModelNumber("no model here"))
	assert.Nil(t, ModelNumber("AB12"))
}

func TestStockStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want model.Availability
	}{
		{"In Stock and ready to ship", model.AvailabilityInStock},
		{"available for pickup", model.AvailabilityInStock},
		{"Out of stock", model.AvailabilityOutOfStock},
		// "unavailable" contains "available"; the negative check must win.
		{"currently unavailable", model.AvailabilityOutOfStock},
		{"limited quantities", model.AvailabilityLimitedStock},
		{"only a few left!", model.AvailabilityLimitedStock},
		{"great appliance", model.AvailabilityUnknown},
		{"", model.AvailabilityUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StockStatus(tt.text), "text %q", tt.text)
	}
}

func TestListingFeatures(t *testing.T) {
	t.Parallel()

	got := ListingFeatures("stainless steel range with convection and air fry, 5 burners, wifi")
	assert.Contains(t, got, "stainless steel")
	assert.Contains(t, got, "convection")
	assert.Contains(t, got, "air fry")
	assert.Contains(t, got, "wifi")
	assert.Contains(t, got, "5 burners")
}

func TestCandidate(t *testing.T) {
	t.Parallel()

	got := Candidate(
		"LG 30 inch Gas Range with Convection",
		"$1,099.00. In stock. Smart wifi enabled, 5 burners.",
		"https://www.homedepot.com/p/123",
		"Home Depot",
		model.CategoryRange,
	)

	assert.Equal(t, "LG 30 inch Gas Range with Convection", got.ProductName)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "LG", *got.Brand)
	require.NotNil(t, got.Price)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1099")))
	require.NotNil(t, got.Size)
	assert.Equal(t, "30 inch", *got.Size)
	require.NotNil(t, got.Fuel)
	assert.Equal(t, model.FuelGas, *got.Fuel)
	assert.Contains(t, got.Features, "convection")
	assert.Contains(t, got.Features, "wifi")
	assert.Contains(t, got.Features, "5 burners")
	assert.Equal(t, "https://www.homedepot.com/p/123", got.URL)
	assert.Equal(t, "Home Depot", got.Retailer)
	assert.Equal(t, model.AvailabilityInStock, got.Availability)
	assert.Equal(t, model.CategoryRange, got.Category)
}

func TestVocabularyTables(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, FeatureKeywords(model.CategoryRange))
	assert.NotEmpty(t, FeatureKeywords(model.CategoryDishwasher))
	assert.NotEmpty(t, FeatureKeywords(model.CategoryRefrigerator))
	assert.NotEmpty(t, FeatureKeywords(model.CategoryMicrowave))
	assert.Empty(t, FeatureKeywords(model.CategoryOven))
	assert.NotEmpty(t, ListingFeatureKeywords())
	assert.NotEmpty(t, KnownBrands())
	assert.NotEmpty(t, ManufacturerDomains())
	assert.NotEmpty(t, RetailerDomains())
}
