package pricing

import (
	"errors"
	"fmt"
)

var ErrInvalidPolicy = errors.New("invalid adjustment policy")

// Policy is the table of constants used by the adjuster. The order in which
// the steps run is fixed by Explain and cannot be changed through a policy.
type Policy struct {
	Version string `json:"version" yaml:"version"`

	Condition ConditionRule `json:"condition" yaml:"condition"`

	TrafficViolationFactor float64 `json:"traffic_violation_factor" yaml:"traffic_violation_factor"`

	UseCaseFactors map[UseCase]float64 `json:"use_case_factors" yaml:"use_case_factors"`

	WarrantyFactor float64 `json:"warranty_factor" yaml:"warranty_factor"`

	Listing ListingRule `json:"listing" yaml:"listing"`

	VehicleRatingRate float64 `json:"vehicle_rating_rate" yaml:"vehicle_rating_rate"`

	VehicleTypeFactors map[VehicleType]float64 `json:"vehicle_type_factors" yaml:"vehicle_type_factors"`
}

// ConditionRule adds rating*LowRate below Threshold and rating*HighRate at or above it.
type ConditionRule struct {
	Threshold float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`
	LowRate   float64 `json:"low_rate" yaml:"low_rate" mapstructure:"low_rate"`
	HighRate  float64 `json:"high_rate" yaml:"high_rate" mapstructure:"high_rate"`
}

// ListingRule applies Factor once a listing is older than StaleAfterDays.
type ListingRule struct {
	StaleAfterDays int     `json:"stale_after_days" yaml:"stale_after_days" mapstructure:"stale_after_days"`
	Factor         float64 `json:"factor" yaml:"factor" mapstructure:"factor"`
}

const DefaultPolicyVersion = "2023.1"

// DefaultPolicy returns the adjustment constants the estimator has always used.
// The business rationale for these values (the base-price threshold of 10 in
// particular) is undocumented and pending product review; keep them as is.
func DefaultPolicy() Policy {
	return Policy{
		Version: DefaultPolicyVersion,
		Condition: ConditionRule{
			Threshold: 10,
			LowRate:   0.3,
			HighRate:  0.6,
		},
		TrafficViolationFactor: 0.5,
		UseCaseFactors: map[UseCase]float64{
			UseCasePersonal:   1,
			UseCaseCommercial: 2.0 / 3.0,
			UseCaseRental:     3.0 / 4.0,
		},
		WarrantyFactor: 1.1,
		Listing: ListingRule{
			StaleAfterDays: 30,
			Factor:         0.9,
		},
		VehicleRatingRate: 0.2,
		VehicleTypeFactors: map[VehicleType]float64{
			VehicleTypeStandard: 1,
			VehicleTypeSUV:      1.2,
			VehicleTypeLuxury:   1.5,
		},
	}
}

// Validate requires a factor for every use case and vehicle type, positive
// factors and non-negative rates. Errors wrap ErrInvalidPolicy.
func (p Policy) Validate() error {
	if p.Condition.Threshold < 0 || p.Condition.LowRate < 0 || p.Condition.HighRate < 0 {
		return fmt.Errorf("%w: condition rule must not be negative", ErrInvalidPolicy)
	}
	if p.Listing.StaleAfterDays < 0 {
		return fmt.Errorf("%w: listing stale_after_days must not be negative", ErrInvalidPolicy)
	}
	if p.VehicleRatingRate < 0 {
		return fmt.Errorf("%w: vehicle_rating_rate must not be negative", ErrInvalidPolicy)
	}

	factors := map[string]float64{
		"traffic_violation_factor": p.TrafficViolationFactor,
		"warranty_factor":          p.WarrantyFactor,
		"listing.factor":           p.Listing.Factor,
	}
	for _, u := range UseCases {
		f, ok := p.UseCaseFactors[u]
		if !ok {
			return fmt.Errorf("%w: missing use case factor for %s", ErrInvalidPolicy, u)
		}
		factors["use_case_factors."+string(u)] = f
	}
	for _, v := range VehicleTypes {
		f, ok := p.VehicleTypeFactors[v]
		if !ok {
			return fmt.Errorf("%w: missing vehicle type factor for %s", ErrInvalidPolicy, v)
		}
		factors["vehicle_type_factors."+string(v)] = f
	}
	for name, f := range factors {
		if f <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidPolicy, name, f)
		}
	}

	return nil
}
