package predictor

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/sozercan/carprice/internal/features"
)

// Cache stores base prices by key.
type Cache interface {
	Get(ctx context.Context, key string) (price float64, ok bool, err error)
	Set(ctx context.Context, key string, price float64) error
}

// Cached memoises another Predictor. Models are deterministic for a given
// row, so a hit is as good as a fresh call.
type Cached struct {
	next  Predictor
	cache Cache
}

func NewCached(next Predictor, cache Cache) *Cached {
	return &Cached{next: next, cache: cache}
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Predict(ctx context.Context, v features.Vector) (float64, error) {
	price, _, err := c.PredictCached(ctx, v)
	return price, err
}

// PredictCached is Predict that also reports whether the value came from the cache.
func (c *Cached) PredictCached(ctx context.Context, v features.Vector) (float64, bool, error) {
	key := CacheKey(c.next.Name(), v)

	price, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		slog.Warn("Prediction cache read failed", "key", key, "error", err)
	case ok:
		slog.Debug("Prediction cache hit", "key", key)
		return price, true, nil
	}

	price, err = c.next.Predict(ctx, v)
	if err != nil {
		return 0, false, err
	}

	if err := c.cache.Set(ctx, key, price); err != nil {
		slog.Warn("Prediction cache write failed", "key", key, "error", err)
	}
	return price, false, nil
}

// CacheKey hashes the backend name and the raw bits of every feature.
func CacheKey(backend string, v features.Vector) string {
	h := xxhash.New()
	_, _ = h.WriteString(backend)

	var buf [8]byte
	for _, x := range v {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
		_, _ = h.Write(buf[:])
	}
	return fmt.Sprintf("carprice:base:%s:%016x", backend, h.Sum64())
}
