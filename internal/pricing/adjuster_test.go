package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// neutral leaves every multiplicative step untouched.
func neutral() AdjustmentRequest {
	return AdjustmentRequest{
		UseCase:     UseCasePersonal,
		VehicleType: VehicleTypeStandard,
	}
}

func TestAdjustConditionBonusThreshold(t *testing.T) {
	req := neutral()
	req.ConditionRating = 3

	below := Adjust(9.9, req)
	assert.InDelta(t, 0.9, below-9.9, 1e-9, "base below 10 uses the low rate")

	above := Adjust(10.1, req)
	assert.InDelta(t, 1.8, above-10.1, 1e-9, "base at or above 10 uses the high rate")

	atThreshold := Adjust(10, req)
	assert.InDelta(t, 11.8, atThreshold, 1e-9)
}

func TestAdjustTrafficViolationHalvesRunningTotal(t *testing.T) {
	req := neutral()
	req.ConditionRating = 2
	clean := Adjust(20, req)

	req.TrafficViolation = true
	dirty := Adjust(20, req)

	// 20 + 1.2 = 21.2 at the point the penalty applies
	assert.InDelta(t, 21.2, clean, 1e-9)
	assert.InDelta(t, 10.6, dirty, 1e-9)
}

func TestAdjustTrafficViolationIgnoresOtherFlags(t *testing.T) {
	tests := []struct {
		name string
		req  AdjustmentRequest
	}{
		{"neutral", neutral()},
		{"everything on", AdjustmentRequest{
			ConditionRating:     5,
			UseCase:             UseCaseCommercial,
			Warranty:            true,
			ListingDurationDays: 45,
			VehicleRating:       4,
			VehicleType:         VehicleTypeLuxury,
		}},
		{"rental suv", AdjustmentRequest{
			ConditionRating:     1,
			UseCase:             UseCaseRental,
			ListingDurationDays: 31,
			VehicleRating:       1,
			VehicleType:         VehicleTypeSUV,
		}},
	}

	a := NewAdjuster(DefaultPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.TrafficViolation = true
			_, steps := a.Explain(15, req)
			require.Len(t, steps, 7)

			before := steps[0].Total
			after := steps[1].Total
			assert.Equal(t, StepTrafficViolation, steps[1].Name)
			assert.Equal(t, OpMultiply, steps[1].Op)
			assert.InDelta(t, 0.5, after/before, 1e-12)
		})
	}
}

func TestAdjustUseCaseFactors(t *testing.T) {
	tests := []struct {
		name    string
		useCase UseCase
		want    float64
	}{
		{"personal", UseCasePersonal, 30},
		{"commercial", UseCaseCommercial, 30 * (2.0 / 3.0)},
		{"rental", UseCaseRental, 30 * (3.0 / 4.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := neutral()
			req.UseCase = tt.useCase
			assert.Equal(t, tt.want, Adjust(30, req))
		})
	}
}

func TestAdjustVehicleTypeFactors(t *testing.T) {
	req := neutral()
	req.VehicleType = VehicleTypeLuxury
	assert.InDelta(t, 30, Adjust(20, req), 1e-9)

	req.VehicleType = VehicleTypeSUV
	assert.InDelta(t, 24, Adjust(20, req), 1e-9)

	req.VehicleType = VehicleTypeStandard
	assert.Equal(t, 20.0, Adjust(20, req))
}

func TestAdjustListingDurationBoundary(t *testing.T) {
	req := neutral()
	req.ListingDurationDays = 30
	assert.Equal(t, 20.0, Adjust(20, req), "30 days is not stale yet")

	req.ListingDurationDays = 31
	assert.InDelta(t, 18, Adjust(20, req), 1e-9)
}

func TestAdjustEndToEnd(t *testing.T) {
	req := AdjustmentRequest{
		ConditionRating:     4,
		TrafficViolation:    false,
		UseCase:             UseCasePersonal,
		Warranty:            true,
		ListingDurationDays: 40,
		VehicleRating:       5,
		VehicleType:         VehicleTypeSUV,
	}

	got, steps := NewAdjuster(DefaultPolicy()).Explain(20, req)
	assert.InDelta(t, 27.8112, got, 1e-9)

	require.Len(t, steps, 7)
	wantTotals := []float64{22.4, 22.4, 22.4, 24.64, 22.176, 23.176, 27.8112}
	wantNames := []string{
		StepCondition, StepTrafficViolation, StepUseCase, StepWarranty,
		StepListingDuration, StepVehicleRating, StepVehicleType,
	}
	for i, s := range steps {
		assert.Equal(t, wantNames[i], s.Name)
		assert.InDelta(t, wantTotals[i], s.Total, 1e-9, "step %s", s.Name)
	}
	assert.Equal(t, OpNone, steps[1].Op)
	assert.Equal(t, OpMultiply, steps[2].Op)
	assert.Equal(t, 1.0, steps[2].Operand)
	assert.Equal(t, OpMultiply, steps[3].Op)
	assert.Equal(t, OpAdd, steps[5].Op)
}

func TestAdjustOrderSensitivity(t *testing.T) {
	req := neutral()
	req.ConditionRating = 5
	req.TrafficViolation = true
	req.UseCase = UseCaseRental
	req.VehicleRating = 4
	req.VehicleType = VehicleTypeLuxury

	got := Adjust(8, req)

	// condition, violation, use case, rating, type
	want := (((8+5*0.3)*0.5)*0.75 + 4*0.2) * 1.5
	assert.InDelta(t, want, got, 1e-9)

	// moving the rating bonus after the type multiplier gives a different number
	reordered := ((8+5*0.3)*0.5)*0.75*1.5 + 4*0.2
	assert.NotEqual(t, math.Round(reordered*1e6), math.Round(got*1e6))
}

func TestAdjustIsDeterministic(t *testing.T) {
	req := AdjustmentRequest{
		ConditionRating:     3,
		TrafficViolation:    true,
		UseCase:             UseCaseCommercial,
		Warranty:            true,
		ListingDurationDays: 90,
		VehicleRating:       2,
		VehicleType:         VehicleTypeLuxury,
	}
	a := NewAdjuster(DefaultPolicy())

	first := a.Adjust(12.345, req)
	explained, _ := a.Explain(12.345, req)
	for i := 0; i < 100; i++ {
		assert.Equal(t, math.Float64bits(first), math.Float64bits(a.Adjust(12.345, req)))
	}
	assert.Equal(t, math.Float64bits(first), math.Float64bits(explained))
}

func TestAdjustAppliesNeutralFactorsFromPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.UseCaseFactors[UseCasePersonal] = 0.5
	p.VehicleTypeFactors[VehicleTypeStandard] = 2
	require.NoError(t, p.Validate())

	a := NewAdjuster(p)
	req := neutral()

	req.VehicleType = VehicleTypeSUV
	assert.InDelta(t, 12, a.Adjust(20, req), 1e-9, "Personal factor applies")

	req = neutral()
	req.UseCase = UseCaseRental
	assert.InDelta(t, 30, a.Adjust(20, req), 1e-9, "Standard factor applies")

	assert.InDelta(t, 20, a.Adjust(20, neutral()), 1e-9, "0.5 * 2")
}

func TestAdjustUsesInjectedPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.WarrantyFactor = 2

	req := neutral()
	req.Warranty = true
	assert.InDelta(t, 40, NewAdjuster(p).Adjust(20, req), 1e-9)
}
