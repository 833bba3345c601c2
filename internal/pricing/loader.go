package pricing

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

// policyFile mirrors Policy with string-keyed maps; viper lower-cases keys.
type policyFile struct {
	Version                string             `mapstructure:"version"`
	Condition              ConditionRule      `mapstructure:"condition"`
	TrafficViolationFactor float64            `mapstructure:"traffic_violation_factor"`
	UseCaseFactors         map[string]float64 `mapstructure:"use_case_factors"`
	WarrantyFactor         float64            `mapstructure:"warranty_factor"`
	Listing                ListingRule        `mapstructure:"listing"`
	VehicleRatingRate      float64            `mapstructure:"vehicle_rating_rate"`
	VehicleTypeFactors     map[string]float64 `mapstructure:"vehicle_type_factors"`
}

// LoadPolicy reads an adjustment policy file (any format viper understands)
// layered over DefaultPolicy. An empty path returns the defaults.
func LoadPolicy(path string) (Policy, error) {
	v := viper.New()
	setPolicyDefaults(v, DefaultPolicy())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Policy{}, fmt.Errorf("read policy file %s: %w", path, err)
		}
		slog.Info("Loaded adjustment policy file", "path", path)
	}

	var pf policyFile
	if err := v.Unmarshal(&pf); err != nil {
		return Policy{}, fmt.Errorf("decode policy: %w", err)
	}

	p := Policy{
		Version:                pf.Version,
		Condition:              pf.Condition,
		TrafficViolationFactor: pf.TrafficViolationFactor,
		UseCaseFactors:         make(map[UseCase]float64, len(pf.UseCaseFactors)),
		WarrantyFactor:         pf.WarrantyFactor,
		Listing:                pf.Listing,
		VehicleRatingRate:      pf.VehicleRatingRate,
		VehicleTypeFactors:     make(map[VehicleType]float64, len(pf.VehicleTypeFactors)),
	}
	for k, f := range pf.UseCaseFactors {
		u, err := ParseUseCase(k)
		if err != nil {
			return Policy{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
		}
		p.UseCaseFactors[u] = f
	}
	for k, f := range pf.VehicleTypeFactors {
		vt, err := ParseVehicleType(k)
		if err != nil {
			return Policy{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
		}
		p.VehicleTypeFactors[vt] = f
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func setPolicyDefaults(v *viper.Viper, p Policy) {
	v.SetDefault("version", p.Version)
	v.SetDefault("condition.threshold", p.Condition.Threshold)
	v.SetDefault("condition.low_rate", p.Condition.LowRate)
	v.SetDefault("condition.high_rate", p.Condition.HighRate)
	v.SetDefault("traffic_violation_factor", p.TrafficViolationFactor)
	for u, f := range p.UseCaseFactors {
		v.SetDefault("use_case_factors."+string(u), f)
	}
	v.SetDefault("warranty_factor", p.WarrantyFactor)
	v.SetDefault("listing.stale_after_days", p.Listing.StaleAfterDays)
	v.SetDefault("listing.factor", p.Listing.Factor)
	v.SetDefault("vehicle_rating_rate", p.VehicleRatingRate)
	for vt, f := range p.VehicleTypeFactors {
		v.SetDefault("vehicle_type_factors."+string(vt), f)
	}
}
