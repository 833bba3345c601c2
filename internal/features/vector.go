package features

import (
	"errors"
	"fmt"
)

var ErrYearOutOfRange = errors.New("manufacture year out of range")

// Columns is the feature order the model expects.
var Columns = []string{
	ColManufacturer,
	"age",
	"Year",
	ColLocation,
	"Kilometers_Driven",
	ColFuelType,
	ColTransmission,
	ColOwnerType,
	"Engine CC",
	"Power",
	"Seats",
	"Mileage Km/L",
}

// Indexes into Vector.
const (
	IdxManufacturer = iota
	IdxAge
	IdxYear
	IdxLocation
	IdxKilometersDriven
	IdxFuelType
	IdxTransmission
	IdxOwnerType
	IdxEngineCC
	IdxPower
	IdxSeats
	IdxMileage

	NumFeatures
)

// Vector is one model input row, categorical columns already encoded.
type Vector [NumFeatures]float64

// Car is the raw description of a car as entered by the user.
type Car struct {
	Manufacturer     string
	Location         string
	FuelType         string
	Transmission     string
	OwnerType        string
	Year             int
	KilometersDriven float64
	EngineCC         float64
	PowerBHP         float64
	Seats            float64
	MileageKmpl      float64
}

const (
	DefaultReferenceYear = 2023
	MinYear              = 2000
)

// Builder encodes cars into vectors. Age is measured against ReferenceYear,
// the year the model's training data was collected.
type Builder struct {
	encoders      *Encoders
	referenceYear int
}

func NewBuilder(encoders *Encoders, referenceYear int) *Builder {
	if referenceYear == 0 {
		referenceYear = DefaultReferenceYear
	}
	return &Builder{encoders: encoders, referenceYear: referenceYear}
}

func (b *Builder) ReferenceYear() int {
	return b.referenceYear
}

func (b *Builder) Build(car Car) (Vector, error) {
	var v Vector

	if car.Year < MinYear || car.Year > b.referenceYear {
		return v, fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, car.Year, MinYear, b.referenceYear)
	}

	categorical := []struct {
		idx    int
		column string
		label  string
	}{
		{IdxManufacturer, ColManufacturer, car.Manufacturer},
		{IdxLocation, ColLocation, car.Location},
		{IdxFuelType, ColFuelType, car.FuelType},
		{IdxTransmission, ColTransmission, car.Transmission},
		{IdxOwnerType, ColOwnerType, car.OwnerType},
	}
	for _, c := range categorical {
		code, err := b.encoders.Transform(c.column, c.label)
		if err != nil {
			return v, err
		}
		v[c.idx] = float64(code)
	}

	v[IdxAge] = float64(b.referenceYear - car.Year)
	v[IdxYear] = float64(car.Year)
	v[IdxKilometersDriven] = car.KilometersDriven
	v[IdxEngineCC] = car.EngineCC
	v[IdxPower] = car.PowerBHP
	v[IdxSeats] = car.Seats
	v[IdxMileage] = car.MileageKmpl

	return v, nil
}
