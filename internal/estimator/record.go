package estimator

import (
	"context"
	"errors"
	"time"

	"github.com/sozercan/carprice/apimodels"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

var ErrHistoryDisabled = errors.New("estimate history is not enabled")

// Record is the audit entry kept for one estimate.
type Record struct {
	ID            string                    `json:"id"`
	CreatedAt     time.Time                 `json:"created_at"`
	Request       apimodels.EstimateRequest `json:"request"`
	BasePrice     float64                   `json:"base_price"`
	AdjustedPrice float64                   `json:"adjusted_price"`
	Backend       string                    `json:"backend"`
	PolicyVersion string                    `json:"policy_version"`
}

func NewRecord(req apimodels.EstimateRequest, resp *apimodels.EstimateResponse) Record {
	return Record{
		ID:            resp.ID,
		CreatedAt:     time.Now().UTC(),
		Request:       req,
		BasePrice:     resp.BasePrice,
		AdjustedPrice: resp.AdjustedPrice,
		Backend:       resp.Metadata.Backend,
		PolicyVersion: resp.Metadata.PolicyVersion,
	}
}

type Recorder interface {
	Record(ctx context.Context, r Record) error
}

// History is implemented by recorders that can read their records back.
type History interface {
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// NopRecorder discards records.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Record) error { return nil }
