package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyConstants(t *testing.T) {
	p := DefaultPolicy()
	require.NoError(t, p.Validate())

	assert.Equal(t, 10.0, p.Condition.Threshold)
	assert.Equal(t, 0.3, p.Condition.LowRate)
	assert.Equal(t, 0.6, p.Condition.HighRate)
	assert.Equal(t, 0.5, p.TrafficViolationFactor)
	assert.Equal(t, 2.0/3.0, p.UseCaseFactors[UseCaseCommercial])
	assert.Equal(t, 3.0/4.0, p.UseCaseFactors[UseCaseRental])
	assert.Equal(t, 1.1, p.WarrantyFactor)
	assert.Equal(t, 30, p.Listing.StaleAfterDays)
	assert.Equal(t, 0.9, p.Listing.Factor)
	assert.Equal(t, 0.2, p.VehicleRatingRate)
	assert.Equal(t, 1.5, p.VehicleTypeFactors[VehicleTypeLuxury])
	assert.Equal(t, 1.2, p.VehicleTypeFactors[VehicleTypeSUV])
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"zero factor", func(p *Policy) { p.WarrantyFactor = 0 }},
		{"negative rate", func(p *Policy) { p.Condition.LowRate = -0.1 }},
		{"missing use case", func(p *Policy) { delete(p.UseCaseFactors, UseCaseRental) }},
		{"missing vehicle type", func(p *Policy) { delete(p.VehicleTypeFactors, VehicleTypeSUV) }},
		{"negative listing days", func(p *Policy) { p.Listing.StaleAfterDays = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy)
		})
	}
}

func TestLoadPolicyDefaults(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestLoadPolicyFileOverrides(t *testing.T) {
	content := `
version: "2024.2"
warranty_factor: 1.2
condition:
  threshold: 12
use_case_factors:
  Rental: 0.8
`
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, "2024.2", p.Version)
	assert.Equal(t, 1.2, p.WarrantyFactor)
	assert.Equal(t, 12.0, p.Condition.Threshold)
	assert.Equal(t, 0.8, p.UseCaseFactors[UseCaseRental])

	// untouched values keep their defaults
	assert.Equal(t, 0.3, p.Condition.LowRate)
	assert.Equal(t, 0.5, p.TrafficViolationFactor)
	assert.Equal(t, 1.5, p.VehicleTypeFactors[VehicleTypeLuxury])
	assert.Equal(t, 1.0, p.UseCaseFactors[UseCasePersonal])
	assert.Equal(t, 2.0/3.0, p.UseCaseFactors[UseCaseCommercial])
	assert.Len(t, p.UseCaseFactors, len(UseCases))
}

func TestLoadPolicyRejectsUnknownKeys(t *testing.T) {
	content := `
vehicle_type_factors:
  Truck: 1.3
`
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadPolicy(path)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestLoadPolicyMissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseHelpers(t *testing.T) {
	u, err := ParseUseCase("commercial")
	require.NoError(t, err)
	assert.Equal(t, UseCaseCommercial, u)

	_, err = ParseUseCase("Fleet")
	assert.Error(t, err)

	vt, err := ParseVehicleType("suv")
	require.NoError(t, err)
	assert.Equal(t, VehicleTypeSUV, vt)

	yes, err := ParseYesNo("Yes")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := ParseYesNo("No")
	require.NoError(t, err)
	assert.False(t, no)

	_, err = ParseYesNo("maybe")
	assert.Error(t, err)
}
