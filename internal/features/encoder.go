// Package features turns the car details a user enters into the fixed-order
// numeric vector the price model was trained on.
package features

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownLabel   = errors.New("unknown category label")
	ErrUnknownColumn  = errors.New("unknown categorical column")
	ErrCodeOutOfRange = errors.New("category code out of range")
)

// Categorical columns, named as in the training data.
const (
	ColManufacturer = "Manufacturer"
	ColLocation     = "Location"
	ColFuelType     = "Fuel_Type"
	ColTransmission = "Transmission"
	ColOwnerType    = "Owner_Type"
)

// CategoricalColumns lists the columns that need an encoder.
var CategoricalColumns = []string{ColManufacturer, ColLocation, ColFuelType, ColTransmission, ColOwnerType}

// LabelEncoder maps a fixed set of labels to their index in sorted order.
type LabelEncoder struct {
	classes []string
	codes   map[string]int
}

// NewLabelEncoder sorts and de-duplicates labels; a label's code is its
// position in that order.
func NewLabelEncoder(labels []string) (*LabelEncoder, error) {
	if len(labels) == 0 {
		return nil, errors.New("label encoder needs at least one class")
	}

	classes := slices.Clone(labels)
	slices.Sort(classes)
	classes = slices.Compact(classes)

	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		codes[c] = i
	}
	return &LabelEncoder{classes: classes, codes: codes}, nil
}

// Classes returns a copy of the known labels in code order.
func (e *LabelEncoder) Classes() []string {
	return slices.Clone(e.classes)
}

func (e *LabelEncoder) Transform(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return code, nil
}

func (e *LabelEncoder) Inverse(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("%w: %d", ErrCodeOutOfRange, code)
	}
	return e.classes[code], nil
}

// Encoders holds one LabelEncoder per categorical column. It is immutable
// once built and safe for concurrent use.
type Encoders struct {
	byColumn map[string]*LabelEncoder
}

// NewEncoders builds encoders from column -> labels. Every column in
// CategoricalColumns must be present.
func NewEncoders(classes map[string][]string) (*Encoders, error) {
	byColumn := make(map[string]*LabelEncoder, len(classes))
	for _, col := range CategoricalColumns {
		labels, ok := classes[col]
		if !ok {
			return nil, fmt.Errorf("missing encoder for column %s", col)
		}
		enc, err := NewLabelEncoder(labels)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		byColumn[col] = enc
	}
	return &Encoders{byColumn: byColumn}, nil
}

// LoadEncoders reads a YAML file mapping column names to class labels.
func LoadEncoders(path string) (*Encoders, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read encoders file: %w", err)
	}

	var classes map[string][]string
	if err := yaml.Unmarshal(data, &classes); err != nil {
		return nil, fmt.Errorf("parse encoders file %s: %w", path, err)
	}
	return NewEncoders(classes)
}

func (e *Encoders) Column(name string) (*LabelEncoder, error) {
	enc, ok := e.byColumn[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return enc, nil
}

func (e *Encoders) Transform(column, label string) (int, error) {
	enc, err := e.Column(column)
	if err != nil {
		return 0, err
	}
	code, err := enc.Transform(label)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", column, err)
	}
	return code, nil
}

func (e *Encoders) Inverse(column string, code int) (string, error) {
	enc, err := e.Column(column)
	if err != nil {
		return "", err
	}
	return enc.Inverse(code)
}

// Classes returns the known labels of every categorical column.
func (e *Encoders) Classes() map[string][]string {
	out := make(map[string][]string, len(e.byColumn))
	for col, enc := range e.byColumn {
		out[col] = enc.Classes()
	}
	return out
}
