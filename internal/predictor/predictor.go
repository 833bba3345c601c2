// Package predictor provides the regression models that turn a feature
// vector into a base price in lakhs.
package predictor

import (
	"context"
	"errors"

	"github.com/sozercan/carprice/internal/features"
)

var (
	ErrBackendUnavailable = errors.New("price model unavailable")

	// ErrBadPrediction means the model answered but the answer carries no usable price.
	ErrBadPrediction = errors.New("price model returned no usable price")
)

type Predictor interface {
	// Predict returns the base price estimate for one encoded row.
	Predict(ctx context.Context, v features.Vector) (float64, error)

	// Name identifies the backend in logs, cache keys and responses.
	Name() string
}

// Backend names accepted by the configuration.
const (
	BackendLinear  = "linear"
	BackendHTTP    = "http"
	BackendGraphQL = "graphql"
	BackendOpenAI  = "openai"
)
