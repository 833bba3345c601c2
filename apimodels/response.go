package apimodels

import "github.com/sozercan/carprice/internal/pricing"

type EstimateResponse struct {
	// Unique estimate identifier, also used by the audit log
	ID string `json:"id"`

	// Raw model output in lakhs
	BasePrice float64 `json:"base_price"`

	// Price after every adjustment, unrounded
	AdjustedPrice float64 `json:"adjusted_price"`

	// AdjustedPrice rounded to two decimals for display
	DisplayPrice string `json:"display_price"`

	// Currency unit of all prices
	Unit string `json:"unit"`

	// Running total after each adjustment step, in application order
	Adjustments []pricing.Step `json:"adjustments"`

	// Metadata about the estimate
	Metadata EstimateMetadata `json:"metadata"`
}

type EstimateMetadata struct {
	// Time taken for the estimate
	Duration string `json:"duration"`

	// Predictor backend that produced the base price
	Backend string `json:"backend"`

	// Version of the adjustment policy applied
	PolicyVersion string `json:"policy_version"`

	// Whether the base price came from the prediction cache
	Cached bool `json:"cached"`

	// Year vehicle age is measured against
	ReferenceYear int `json:"reference_year"`
}

// OptionsResponse lists the choices the form may offer.
type OptionsResponse struct {
	Categories   map[string][]string `json:"categories"`
	UseCases     []string            `json:"use_cases"`
	VehicleTypes []string            `json:"vehicle_types"`
	YesNo        []string            `json:"yes_no"`
	MinYear      int                 `json:"min_year"`
	MaxYear      int                 `json:"max_year"`
	RatingRange  [2]int              `json:"rating_range"`
}
