package pricing

import (
	"fmt"
	"strings"
)

type UseCase string

const (
	UseCasePersonal   UseCase = "Personal"
	UseCaseCommercial UseCase = "Commercial"
	UseCaseRental     UseCase = "Rental"
)

// UseCases lists the accepted use cases in the order the form shows them.
var UseCases = []UseCase{UseCasePersonal, UseCaseCommercial, UseCaseRental}

type VehicleType string

const (
	VehicleTypeStandard VehicleType = "Standard"
	VehicleTypeSUV      VehicleType = "SUV"
	VehicleTypeLuxury   VehicleType = "Luxury"
)

// VehicleTypes lists the accepted vehicle types in the order the form shows them.
var VehicleTypes = []VehicleType{VehicleTypeStandard, VehicleTypeSUV, VehicleTypeLuxury}

// AdjustmentRequest carries the situational modifiers applied on top of a base price.
// Callers are expected to have range-checked the values; the adjuster does not validate.
type AdjustmentRequest struct {
	ConditionRating     int
	TrafficViolation    bool
	UseCase             UseCase
	Warranty            bool
	ListingDurationDays int
	VehicleRating       int
	VehicleType         VehicleType
}

// ParseUseCase matches s against UseCases, ignoring case.
func ParseUseCase(s string) (UseCase, error) {
	for _, u := range UseCases {
		if strings.EqualFold(s, string(u)) {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown use case %q", s)
}

// ParseVehicleType matches s against VehicleTypes, ignoring case.
func ParseVehicleType(s string) (VehicleType, error) {
	for _, v := range VehicleTypes {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown vehicle type %q", s)
}

// ParseYesNo maps the form's "Yes"/"No" choice to a bool.
func ParseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return true, nil
	case "no", "":
		return false, nil
	}
	return false, fmt.Errorf("expected Yes or No, got %q", s)
}
