package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/keystone-claims/appliance-research/internal/match"
	"github.com/keystone-claims/appliance-research/internal/model"
)

// Request and response shapes shared by the CLI commands and the REST API.
// They are also what gets persisted as a run's request payload.

type researchRequest struct {
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	ApplianceType string `json:"appliance_type"`
	ForceAI       bool   `json:"force_ai,omitempty"`
}

func (r researchRequest) validate() error {
	var missing []string
	if strings.TrimSpace(r.Brand) == "" {
		missing = append(missing, "brand")
	}
	if strings.TrimSpace(r.Model) == "" {
		missing = append(missing, "model")
	}
	if strings.TrimSpace(r.ApplianceType) == "" {
		missing = append(missing, "appliance_type")
	}
	if len(missing) > 0 {
		return eris.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

type replacementRequest struct {
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	Type          string   `json:"type"`
	Size          *string  `json:"size"`
	Fuel          *string  `json:"fuel"`
	Features      []string `json:"features"`
	BrandForBrand bool     `json:"brand_for_brand,omitempty"`
	DollarLimit   *string  `json:"dollar_limit,omitempty"`
}

func (r replacementRequest) validate() error {
	var missing []string
	if strings.TrimSpace(r.Brand) == "" {
		missing = append(missing, "brand")
	}
	if strings.TrimSpace(r.Model) == "" {
		missing = append(missing, "model")
	}
	if strings.TrimSpace(r.Type) == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return eris.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// original assembles the original-product value the ranker scores against.
// Non-fuel categories resolve to the "not applicable" sentinel when no fuel
// was supplied.
func (r replacementRequest) original() model.OriginalProduct {
	category := model.NormalizeCategory(r.Type)

	spec := model.ProductSpecification{
		Category: category,
		Size:     r.Size,
		Features: r.Features,
	}
	switch {
	case r.Fuel != nil:
		fuel := model.FuelType(strings.ToLower(strings.TrimSpace(*r.Fuel)))
		spec.Fuel = &fuel
	case !category.UsesFuel():
		spec.Fuel = model.Ptr(model.FuelNotApplicable)
	}

	return model.OriginalProduct{
		Brand:                r.Brand,
		Model:                r.Model,
		ProductSpecification: spec,
	}
}

func (r replacementRequest) filters() (match.Filters, error) {
	f := match.Filters{BrandForBrand: r.BrandForBrand}
	if r.DollarLimit != nil {
		limit, err := decimal.NewFromString(*r.DollarLimit)
		if err != nil {
			return match.Filters{}, eris.Wrap(err, "parse dollar_limit")
		}
		f.DollarLimit = &limit
	}
	return f, nil
}

type completeRequest struct {
	Brand         string  `json:"brand"`
	Model         string  `json:"model"`
	ApplianceType string  `json:"appliance_type"`
	ForceAI       bool    `json:"force_ai,omitempty"`
	BrandForBrand bool    `json:"brand_for_brand,omitempty"`
	DollarLimit   *string `json:"dollar_limit,omitempty"`
}

func (r completeRequest) validate() error {
	return researchRequest{Brand: r.Brand, Model: r.Model, ApplianceType: r.ApplianceType}.validate()
}

// completeResult is the outcome of the research-then-replace workflow. On
// failure, Stage names the step that failed.
type completeResult struct {
	Success      bool                     `json:"success"`
	Stage        *string                  `json:"stage"`
	Error        *string                  `json:"error"`
	Research     model.ExtractionResult   `json:"research"`
	Replacements *model.ReplacementReport `json:"replacements"`
}
