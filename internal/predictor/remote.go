package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sozercan/carprice/internal/features"
)

// Remote calls a model-serving sidecar over JSON.
type Remote struct {
	endpoint string
	client   *http.Client
	retries  int
	backoff  time.Duration
}

type remoteRequest struct {
	Columns  []string  `json:"columns"`
	Features []float64 `json:"features"`
}

type remoteResponse struct {
	Price *float64 `json:"price"`
	Error string   `json:"error,omitempty"`
}

func NewRemote(endpoint string, timeout time.Duration, retries int) (*Remote, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("model endpoint cannot be empty")
	}
	slog.Info("Creating remote model client", "endpoint", endpoint)

	return &Remote{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
		retries: retries,
		backoff: 200 * time.Millisecond,
	}, nil
}

func (r *Remote) Name() string { return BackendHTTP }

func (r *Remote) Predict(ctx context.Context, v features.Vector) (float64, error) {
	body, err := json.Marshal(remoteRequest{Columns: features.Columns, Features: v[:]})
	if err != nil {
		return 0, fmt.Errorf("marshal model request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<(attempt-1)) * r.backoff
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(wait):
			}
		}

		price, retry, err := r.do(ctx, body)
		if err == nil {
			return price, nil
		}
		if !retry {
			return 0, err
		}
		lastErr = err
		slog.Warn("Model request failed, retrying", "endpoint", r.endpoint, "attempt", attempt+1, "error", err)
	}

	return 0, fmt.Errorf("%w: %d attempts: %v", ErrBackendUnavailable, r.retries+1, lastErr)
}

// do performs one request. retry reports whether the failure is transient.
func (r *Remote) do(ctx context.Context, body []byte) (price float64, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, false, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		return 0, true, fmt.Errorf("call model service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, res.Body)
		return 0, true, fmt.Errorf("model service returned %s", res.Status)
	}

	var out remoteResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, false, fmt.Errorf("%w: decode model response: %v", ErrBadPrediction, err)
	}
	if res.StatusCode != http.StatusOK || out.Error != "" {
		return 0, false, fmt.Errorf("%w: model service rejected request (%s): %s", ErrBadPrediction, res.Status, out.Error)
	}
	if out.Price == nil {
		return 0, false, fmt.Errorf("%w: model response has no price", ErrBadPrediction)
	}

	return *out.Price, false, nil
}
