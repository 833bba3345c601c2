package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Model    ModelConfig
	OpenAI   OpenAIConfig
	Pricing  PricingConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Port           string        `envconfig:"SERVER_PORT" default:"8000"`
	Host           string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout    time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout   time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"20s"`
	StaticDir      string        `envconfig:"SERVER_STATIC_DIR" default:"web/static"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"dev"`
}

type ModelConfig struct {
	// Backend selects the predictor: linear, http, graphql or openai.
	Backend       string        `envconfig:"MODEL_BACKEND" default:"linear"`
	ArtifactPath  string        `envconfig:"MODEL_ARTIFACT" default:"artifacts/linear.yaml"`
	EncodersPath  string        `envconfig:"MODEL_ENCODERS" default:"artifacts/encoders.yaml"`
	Endpoint      string        `envconfig:"MODEL_ENDPOINT" default:"http://localhost:8500/predict"`
	Timeout       time.Duration `envconfig:"MODEL_TIMEOUT" default:"5s"`
	Retries       int           `envconfig:"MODEL_RETRIES" default:"2"`
	ReferenceYear int           `envconfig:"MODEL_REFERENCE_YEAR" default:"2023"`
}

type OpenAIConfig struct {
	Provider       string `envconfig:"OPENAI_PROVIDER" default:"openai"`
	APIKey         string `envconfig:"OPENAI_API_KEY"`
	APIEndpoint    string `envconfig:"OPENAI_ENDPOINT" default:"https://api.openai.com/v1"`
	Model          string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	DeploymentName string `envconfig:"OPENAI_DEPLOYMENT" default:"gpt-4o"`
	APIVersion     string `envconfig:"OPENAI_API_VERSION" default:"2023-05-15"`
}

type PricingConfig struct {
	// PolicyPath is an optional adjustment policy file; empty uses the built-in table.
	PolicyPath string `envconfig:"PRICING_POLICY"`
}

type RedisConfig struct {
	// Addr enables the prediction cache when set.
	Addr string        `envconfig:"REDIS_ADDR"`
	DB   int           `envconfig:"REDIS_DB" default:"0"`
	TTL  time.Duration `envconfig:"REDIS_TTL" default:"24h"`
}

type PostgresConfig struct {
	// DSN enables the estimate audit log when set.
	DSN string `envconfig:"DATABASE_URL"`
}

func LoadConfig() (*Config, error) {
	// a missing .env file is fine; the environment may already be populated
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Model.Backend {
	case "linear", "http", "graphql":
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
	default:
		return fmt.Errorf("unknown MODEL_BACKEND %q", c.Model.Backend)
	}
	if c.Model.Retries < 0 {
		return fmt.Errorf("MODEL_RETRIES must not be negative")
	}
	return nil
}
