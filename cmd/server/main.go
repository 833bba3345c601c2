// cmd/server/main.go
package main

import (
	"context"
	"log"

	"github.com/sozercan/carprice/internal/app"
	"github.com/sozercan/carprice/internal/config"
	"github.com/sozercan/carprice/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	a, err := app.FromConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialise estimator: %v", err)
	}
	defer a.Close()

	srv := server.New(cfg.Server, a.Estimator)
	a.Logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(); err != nil {
		a.Close()
		log.Fatalf("server failed: %v", err)
	}
}
