// Package providers contains dependency injection providers for the Cerebero server.
package providers

import (
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/cerebero/cerebero-server/internal/config"
	"github.com/cerebero/cerebero-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Options{
		Writer:      os.Stdout,
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
	})

	log.Info("Starting Cerebero Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Storage.DataPath,
		"storage_backend", cfg.Storage.Backend,
		"ai_enabled", cfg.AIEnabled(),
	)

	return log, nil
}
