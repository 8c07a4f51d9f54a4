package bootstrap

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/repository"
)

// RunMigrations applies the embedded schema migrations before the HTTP
// server starts accepting traffic.
func RunMigrations(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			if logger != nil {
				logger.Info("database migrations applied")
			}
			return nil
		},
	})
}
