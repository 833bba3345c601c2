package apimodels

// EstimateRequest is what the form submits.
type EstimateRequest struct {
	// Car details fed to the price model. Categorical fields must be labels
	// the encoders know; see /api/v1/options.
	Manufacturer     string  `json:"manufacturer" validate:"required"`
	Location         string  `json:"location" validate:"required"`
	FuelType         string  `json:"fuel_type" validate:"required"`
	Transmission     string  `json:"transmission" validate:"required"`
	OwnerType        string  `json:"owner_type" validate:"required"`
	Year             int     `json:"year" validate:"min=2000"`
	KilometersDriven float64 `json:"kilometers_driven" validate:"min=0"`
	EngineCC         float64 `json:"engine_cc" validate:"min=0"`
	PowerBHP         float64 `json:"power_bhp" validate:"min=0"`
	Seats            float64 `json:"seats" validate:"min=0"`
	MileageKmpl      float64 `json:"mileage_kmpl" validate:"min=0"`

	// Situational modifiers applied after the model.
	ConditionRating     int    `json:"condition_rating" validate:"min=1,max=5"`
	TrafficViolation    string `json:"traffic_violation" validate:"oneof=Yes No"`
	UseCase             string `json:"use_case" validate:"oneof=Personal Commercial Rental"`
	Warranty            string `json:"warranty" validate:"oneof=Yes No"`
	ListingDurationDays int    `json:"listing_duration_days" validate:"min=0"`
	VehicleRating       int    `json:"vehicle_rating" validate:"min=1,max=5"`
	VehicleType         string `json:"vehicle_type" validate:"oneof=Standard SUV Luxury"`
}
