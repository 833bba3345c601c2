package postgres

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/carprice/apimodels"
	"github.com/sozercan/carprice/internal/estimator"
)

func TestEstimateRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_TEST_URL")
	if dsn == "" {
		t.Skip("DATABASE_TEST_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}

	repo := NewEstimateRepository(pool, slog.Default())
	require.NoError(t, repo.EnsureSchema(ctx))

	rec := estimator.Record{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
		Request:       apimodels.EstimateRequest{Manufacturer: "Toyota", Year: 2018, UseCase: "Rental"},
		BasePrice:     20,
		AdjustedPrice: 27.8112,
		Backend:       "linear",
		PolicyVersion: "2023.1",
	}
	require.NoError(t, repo.Record(ctx, rec))
	defer pool.Exec(ctx, "DELETE FROM car_price_estimates WHERE id = $1", rec.ID)

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)

	var found *estimator.Record
	for i := range recent {
		if recent[i].ID == rec.ID {
			found = &recent[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, rec.AdjustedPrice, found.AdjustedPrice)
	assert.Equal(t, "Toyota", found.Request.Manufacturer)
	assert.Equal(t, "Rental", found.Request.UseCase)
	assert.True(t, rec.CreatedAt.Equal(found.CreatedAt))

	// duplicate ids are rejected by the primary key
	assert.Error(t, repo.Record(ctx, rec))
}

func TestEstimateRepositoryRecentFailsOnBadRow(t *testing.T) {
	dsn := os.Getenv("DATABASE_TEST_URL")
	if dsn == "" {
		t.Skip("DATABASE_TEST_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}

	repo := NewEstimateRepository(pool, slog.Default())
	require.NoError(t, repo.EnsureSchema(ctx))

	// a request that is valid JSON but not an object
	id := uuid.NewString()
	_, err = pool.Exec(ctx, `
		INSERT INTO car_price_estimates (id, created_at, request, base_price, adjusted_price, backend, policy_version)
		VALUES ($1, $2, '"broken"'::jsonb, 1, 1, 'linear', '2023.1')
	`, id, time.Now().Add(time.Hour).UTC())
	require.NoError(t, err)
	defer pool.Exec(ctx, "DELETE FROM car_price_estimates WHERE id = $1", id)

	records, err := repo.Recent(ctx, 10)
	assert.ErrorContains(t, err, id)
	assert.Nil(t, records)
}
