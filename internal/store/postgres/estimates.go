package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sozercan/carprice/internal/estimator"
)

const Schema = `
	CREATE TABLE IF NOT EXISTS car_price_estimates (
		id             UUID PRIMARY KEY,
		created_at     TIMESTAMPTZ NOT NULL,
		request        JSONB NOT NULL,
		base_price     DOUBLE PRECISION NOT NULL,
		adjusted_price DOUBLE PRECISION NOT NULL,
		backend        TEXT NOT NULL,
		policy_version TEXT NOT NULL
	)
`

// EstimateRepository keeps the audit log of served estimates.
type EstimateRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewEstimateRepository(db *pgxpool.Pool, logger *slog.Logger) *EstimateRepository {
	return &EstimateRepository{
		db:     db,
		logger: logger,
	}
}

func (r *EstimateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create estimates table: %w", err)
	}
	return nil
}

func (r *EstimateRepository) Record(ctx context.Context, rec estimator.Record) error {
	query := `
		INSERT INTO car_price_estimates (id, created_at, request, base_price, adjusted_price, backend, policy_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	request, err := json.Marshal(rec.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		rec.ID,
		rec.CreatedAt,
		request,
		rec.BasePrice,
		rec.AdjustedPrice,
		rec.Backend,
		rec.PolicyVersion,
	)
	if err != nil {
		r.logger.Error("failed to save estimate", slog.Any("error", err))
		return err
	}

	return nil
}

// Recent returns the newest estimates first.
func (r *EstimateRepository) Recent(ctx context.Context, limit int) ([]estimator.Record, error) {
	query := `
		SELECT id, created_at, request, base_price, adjusted_price, backend, policy_version
		FROM car_price_estimates
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []estimator.Record
	for rows.Next() {
		var (
			rec       estimator.Record
			request   []byte
			createdAt time.Time
		)
		err := rows.Scan(
			&rec.ID,
			&createdAt,
			&request,
			&rec.BasePrice,
			&rec.AdjustedPrice,
			&rec.Backend,
			&rec.PolicyVersion,
		)
		if err != nil {
			r.logger.Error("failed to scan estimate", slog.Any("error", err))
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		if err := json.Unmarshal(request, &rec.Request); err != nil {
			r.logger.Error("failed to decode estimate request", slog.Any("id", rec.ID), slog.Any("error", err))
			return nil, fmt.Errorf("decode estimate %s request: %w", rec.ID, err)
		}
		rec.CreatedAt = createdAt.UTC()
		results = append(results, rec)
	}

	return results, rows.Err()
}
