package estimator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sozercan/carprice/apimodels"
	"github.com/sozercan/carprice/internal/features"
	"github.com/sozercan/carprice/internal/predictor"
	"github.com/sozercan/carprice/internal/pricing"
)

const Unit = "lakhs"

var ErrInvalidRequest = errors.New("invalid estimate request")

// cachedPredictor is implemented by predictors that can report cache hits.
type cachedPredictor interface {
	PredictCached(ctx context.Context, v features.Vector) (float64, bool, error)
}

type Estimator struct {
	encoders  *features.Encoders
	builder   *features.Builder
	predictor predictor.Predictor
	adjuster  *pricing.Adjuster
	recorder  Recorder
	history   History
}

type Option func(*Estimator)

// WithRecorder stores every successful estimate. If r can also list its
// records, Recent reads from it.
func WithRecorder(r Recorder) Option {
	return func(e *Estimator) {
		e.recorder = r
		if h, ok := r.(History); ok {
			e.history = h
		}
	}
}

// WithReferenceYear sets the year vehicle age is measured against.
func WithReferenceYear(year int) Option {
	return func(e *Estimator) {
		e.builder = features.NewBuilder(e.encoders, year)
	}
}

func New(encoders *features.Encoders, p predictor.Predictor, adjuster *pricing.Adjuster, opts ...Option) *Estimator {
	e := &Estimator{
		encoders:  encoders,
		builder:   features.NewBuilder(encoders, features.DefaultReferenceYear),
		predictor: p,
		adjuster:  adjuster,
		recorder:  NopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Estimator) Estimate(ctx context.Context, req apimodels.EstimateRequest) (*apimodels.EstimateResponse, error) {
	slog.Info("Starting estimate", "manufacturer", req.Manufacturer, "year", req.Year)
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	vector, err := e.builder.Build(features.Car{
		Manufacturer:     req.Manufacturer,
		Location:         req.Location,
		FuelType:         req.FuelType,
		Transmission:     req.Transmission,
		OwnerType:        req.OwnerType,
		Year:             req.Year,
		KilometersDriven: req.KilometersDriven,
		EngineCC:         req.EngineCC,
		PowerBHP:         req.PowerBHP,
		Seats:            req.Seats,
		MileageKmpl:      req.MileageKmpl,
	})
	if err != nil {
		return nil, fmt.Errorf("build features: %w", err)
	}

	adjReq, err := adjustmentRequest(req)
	if err != nil {
		return nil, err
	}

	base, cached, err := e.predict(ctx, vector)
	if err != nil {
		slog.Error("Base price prediction failed", "backend", e.predictor.Name(), "error", err)
		return nil, fmt.Errorf("predict base price: %w", err)
	}
	slog.Debug("Base price predicted", "backend", e.predictor.Name(), "base", base, "cached", cached)

	adjusted, steps := e.adjuster.Explain(base, adjReq)
	policy := e.adjuster.Policy()

	resp := &apimodels.EstimateResponse{
		ID:            uuid.NewString(),
		BasePrice:     base,
		AdjustedPrice: adjusted,
		DisplayPrice:  DisplayPrice(adjusted),
		Unit:          Unit,
		Adjustments:   steps,
		Metadata: apimodels.EstimateMetadata{
			Duration:      time.Since(startTime).String(),
			Backend:       e.predictor.Name(),
			PolicyVersion: policy.Version,
			Cached:        cached,
			ReferenceYear: e.builder.ReferenceYear(),
		},
	}

	if err := e.recorder.Record(ctx, NewRecord(req, resp)); err != nil {
		slog.Warn("Failed to record estimate", "id", resp.ID, "error", err)
	}

	slog.Info("Estimate completed", "id", resp.ID, "base", base, "adjusted", resp.DisplayPrice)
	return resp, nil
}

func (e *Estimator) predict(ctx context.Context, v features.Vector) (float64, bool, error) {
	if cp, ok := e.predictor.(cachedPredictor); ok {
		return cp.PredictCached(ctx, v)
	}
	price, err := e.predictor.Predict(ctx, v)
	return price, false, err
}

// Recent returns the newest recorded estimates. limit is clamped to
// 1..MaxHistoryLimit, with DefaultHistoryLimit used for zero or less.
func (e *Estimator) Recent(ctx context.Context, limit int) ([]Record, error) {
	if e.history == nil {
		return nil, ErrHistoryDisabled
	}

	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	records, err := e.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	return records, nil
}

// Options lists every choice the form may offer.
func (e *Estimator) Options() apimodels.OptionsResponse {
	useCases := make([]string, len(pricing.UseCases))
	for i, u := range pricing.UseCases {
		useCases[i] = string(u)
	}
	vehicleTypes := make([]string, len(pricing.VehicleTypes))
	for i, v := range pricing.VehicleTypes {
		vehicleTypes[i] = string(v)
	}

	return apimodels.OptionsResponse{
		Categories:   e.encoders.Classes(),
		UseCases:     useCases,
		VehicleTypes: vehicleTypes,
		YesNo:        []string{"No", "Yes"},
		MinYear:      features.MinYear,
		MaxYear:      e.builder.ReferenceYear(),
		RatingRange:  [2]int{1, 5},
	}
}

// Policy returns the adjustment table in use.
func (e *Estimator) Policy() pricing.Policy {
	return e.adjuster.Policy()
}

// DisplayPrice rounds a price to two decimals for presentation.
func DisplayPrice(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(2)
}

func adjustmentRequest(req apimodels.EstimateRequest) (pricing.AdjustmentRequest, error) {
	violation, err := pricing.ParseYesNo(req.TrafficViolation)
	if err != nil {
		return pricing.AdjustmentRequest{}, fmt.Errorf("%w: traffic_violation: %v", ErrInvalidRequest, err)
	}
	warranty, err := pricing.ParseYesNo(req.Warranty)
	if err != nil {
		return pricing.AdjustmentRequest{}, fmt.Errorf("%w: warranty: %v", ErrInvalidRequest, err)
	}
	useCase, err := pricing.ParseUseCase(req.UseCase)
	if err != nil {
		return pricing.AdjustmentRequest{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	vehicleType, err := pricing.ParseVehicleType(req.VehicleType)
	if err != nil {
		return pricing.AdjustmentRequest{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	return pricing.AdjustmentRequest{
		ConditionRating:     req.ConditionRating,
		TrafficViolation:    violation,
		UseCase:             useCase,
		Warranty:            warranty,
		ListingDurationDays: req.ListingDurationDays,
		VehicleRating:       req.VehicleRating,
		VehicleType:         vehicleType,
	}, nil
}
