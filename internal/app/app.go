// Package app assembles the estimator and its backing services from configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sozercan/carprice/internal/config"
	"github.com/sozercan/carprice/internal/estimator"
	"github.com/sozercan/carprice/internal/features"
	"github.com/sozercan/carprice/internal/predictor"
	"github.com/sozercan/carprice/internal/pricing"
	"github.com/sozercan/carprice/internal/store/postgres"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

type App struct {
	Logger    *slog.Logger
	Postgres  *pgxpool.Pool
	Redis     *redis.Client
	Encoders  *features.Encoders
	Policy    pricing.Policy
	Predictor predictor.Predictor
	Estimator *estimator.Estimator
}

type Option func(context.Context, *App) error

func (a *App) Close() {
	if a == nil {
		return
	}

	if a.Postgres != nil {
		a.Postgres.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
}

func New(ctx context.Context, opts ...Option) (a *App, err error) {
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a = &App{Logger: slog.Default()}

	for _, opt := range opts {
		if err := opt(ctx, a); err != nil {
			return a, err
		}
	}

	return a, nil
}

// FromConfig wires every service cfg asks for. Redis and Postgres are only
// connected when their addresses are set.
func FromConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	opts := []Option{WithLogger(cfg.Server.LogLevel, os.Stdout)}
	if cfg.Redis.Addr != "" {
		opts = append(opts, WithRedis(cfg.Redis.Addr, cfg.Redis.DB))
	}
	if cfg.Postgres.DSN != "" {
		opts = append(opts, WithPostgres(cfg.Postgres.DSN))
	}
	opts = append(opts, WithEstimator(cfg))

	a, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func WithLogger(level string, w io.Writer) Option {
	return func(_ context.Context, a *App) error {
		var handler slog.Handler

		switch level {
		case EnvProd:
			handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
		case EnvDev:
			handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
		default:
			handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)
		a.Logger = logger
		return nil
	}
}

func WithRedis(addr string, db int) Option {
	return func(ctx context.Context, a *App) error {
		client := redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return fmt.Errorf("connect redis: %w", err)
		}

		a.Redis = client
		return nil
	}
}

func WithPostgres(dsn string) Option {
	return func(ctx context.Context, a *App) error {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}

		a.Postgres = pool
		return nil
	}
}

// WithEstimator loads the model artifacts and pricing policy. It must come
// after WithRedis and WithPostgres so it can use them.
func WithEstimator(cfg *config.Config) Option {
	return func(ctx context.Context, a *App) error {
		encoders, err := features.LoadEncoders(cfg.Model.EncodersPath)
		if err != nil {
			return err
		}

		policy, err := pricing.LoadPolicy(cfg.Pricing.PolicyPath)
		if err != nil {
			return err
		}

		p, err := NewPredictor(cfg, encoders)
		if err != nil {
			return err
		}
		if a.Redis != nil {
			p = predictor.NewCached(p, predictor.NewRedisCache(a.Redis, cfg.Redis.TTL))
		}

		opts := []estimator.Option{estimator.WithReferenceYear(cfg.Model.ReferenceYear)}
		if a.Postgres != nil {
			repo := postgres.NewEstimateRepository(a.Postgres, a.Logger)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}
			opts = append(opts, estimator.WithRecorder(repo))
		}

		a.Encoders = encoders
		a.Policy = policy
		a.Predictor = p
		a.Estimator = estimator.New(encoders, p, pricing.NewAdjuster(policy), opts...)

		a.Logger.Info("Estimator ready",
			"backend", p.Name(),
			"policy_version", policy.Version,
			"reference_year", cfg.Model.ReferenceYear,
			"cache", a.Redis != nil,
			"audit_log", a.Postgres != nil,
		)
		return nil
	}
}

// NewPredictor builds the base price backend named by cfg.Model.Backend.
func NewPredictor(cfg *config.Config, encoders *features.Encoders) (predictor.Predictor, error) {
	switch cfg.Model.Backend {
	case predictor.BackendLinear:
		return predictor.LoadLinear(cfg.Model.ArtifactPath)
	case predictor.BackendHTTP:
		return predictor.NewRemote(cfg.Model.Endpoint, cfg.Model.Timeout, cfg.Model.Retries)
	case predictor.BackendGraphQL:
		return predictor.NewGraphQL(cfg.Model.Endpoint, cfg.Model.Timeout)
	case predictor.BackendOpenAI:
		return predictor.NewOpenAI(&cfg.OpenAI, encoders)
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Model.Backend)
	}
}
