package predictor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Khan/genqlient/graphql"

	"github.com/sozercan/carprice/internal/features"
)

const predictPriceQuery = `query PredictPrice($features: [Float!]!) {
	predictPrice(features: $features)
}`

// GraphQL asks a model gateway for predictions over GraphQL.
type GraphQL struct {
	client graphql.Client
}

type predictPriceVariables struct {
	Features []float64 `json:"features"`
}

type predictPriceData struct {
	PredictPrice *float64 `json:"predictPrice"`
}

func NewGraphQL(endpoint string, timeout time.Duration) (*GraphQL, error) {
	slog.Info("Creating GraphQL model client", "endpoint", endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("GraphQL endpoint cannot be empty")
	}

	httpClient := &http.Client{
		Timeout: timeout,
	}

	return &GraphQL{
		client: graphql.NewClient(endpoint, httpClient),
	}, nil
}

func (g *GraphQL) Name() string { return BackendGraphQL }

func (g *GraphQL) Predict(ctx context.Context, v features.Vector) (float64, error) {
	req := graphql.Request{
		OpName:    "PredictPrice",
		Query:     predictPriceQuery,
		Variables: predictPriceVariables{Features: v[:]},
	}

	var data predictPriceData
	resp := graphql.Response{Data: &data}

	if err := g.client.MakeRequest(ctx, &req, &resp); err != nil {
		slog.Error("GraphQL prediction failed", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if data.PredictPrice == nil {
		return 0, fmt.Errorf("%w: GraphQL response has no predictPrice", ErrBadPrediction)
	}

	return *data.PredictPrice, nil
}
