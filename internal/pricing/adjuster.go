// Package pricing adjusts a model's base price for the situational details
// the model never sees: condition, history, usage and listing age.
package pricing

// Operation describes how a step changed the running total.
type Operation string

const (
	OpAdd      Operation = "add"
	OpMultiply Operation = "multiply"
	OpNone     Operation = "none"
)

// Step is one entry of the adjustment trail.
type Step struct {
	Name    string    `json:"name"`
	Op      Operation `json:"op"`
	Operand float64   `json:"operand"`
	Total   float64   `json:"total"`
}

const (
	StepCondition        = "condition_rating"
	StepTrafficViolation = "traffic_violation"
	StepUseCase          = "use_case"
	StepWarranty         = "warranty"
	StepListingDuration  = "listing_duration"
	StepVehicleRating    = "vehicle_rating"
	StepVehicleType      = "vehicle_type"
)

// Adjuster applies a Policy. The zero value is not usable; use NewAdjuster.
type Adjuster struct {
	policy Policy
}

func NewAdjuster(p Policy) *Adjuster {
	return &Adjuster{policy: p}
}

func (a *Adjuster) Policy() Policy {
	return a.policy
}

// Adjust returns the adjusted price for base using the default policy.
func Adjust(base float64, req AdjustmentRequest) float64 {
	return NewAdjuster(DefaultPolicy()).Adjust(base, req)
}

// Adjust returns the adjusted, unrounded price.
func (a *Adjuster) Adjust(base float64, req AdjustmentRequest) float64 {
	total, _ := a.run(base, req, false)
	return total
}

// Explain returns the same value as Adjust together with the running total
// after every step.
func (a *Adjuster) Explain(base float64, req AdjustmentRequest) (float64, []Step) {
	return a.run(base, req, true)
}

func (a *Adjuster) run(base float64, req AdjustmentRequest, trace bool) (float64, []Step) {
	p := a.policy
	total := base

	var steps []Step
	if trace {
		steps = make([]Step, 0, 7)
	}
	record := func(name string, op Operation, operand float64) {
		if trace {
			steps = append(steps, Step{Name: name, Op: op, Operand: operand, Total: total})
		}
	}
	multiply := func(name string, apply bool, factor float64) {
		if !apply {
			record(name, OpNone, 0)
			return
		}
		total *= factor
		record(name, OpMultiply, factor)
	}

	// 1. condition bonus, rate chosen by the base price
	rate := p.Condition.HighRate
	if base < p.Condition.Threshold {
		rate = p.Condition.LowRate
	}
	bonus := float64(req.ConditionRating) * rate
	total += bonus
	record(StepCondition, OpAdd, bonus)

	// 2.
	multiply(StepTrafficViolation, req.TrafficViolation, p.TrafficViolationFactor)

	// 3. every known use case has a factor; Personal is 1 by default
	f, ok := p.UseCaseFactors[req.UseCase]
	multiply(StepUseCase, ok, f)

	// 4.
	multiply(StepWarranty, req.Warranty, p.WarrantyFactor)

	// 5.
	multiply(StepListingDuration, req.ListingDurationDays > p.Listing.StaleAfterDays, p.Listing.Factor)

	// 6. rating bonus is unconditional
	ratingBonus := float64(req.VehicleRating) * p.VehicleRatingRate
	total += ratingBonus
	record(StepVehicleRating, OpAdd, ratingBonus)

	// 7.
	f, ok = p.VehicleTypeFactors[req.VehicleType]
	multiply(StepVehicleType, ok, f)

	return total, steps
}
