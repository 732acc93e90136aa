package migration

import (
	"context"
	"time"

	"github.com/smallbiznis/eltrackr/internal/config"
	"github.com/smallbiznis/eltrackr/internal/submission/repository"
	"github.com/smallbiznis/eltrackr/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SQLModule creates the submissions table on start-up. An unreachable
// store is logged and the process keeps serving in degraded mode; any
// other migration failure aborts start-up.
var SQLModule = fx.Module("migrations.sql",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		log = log.Named("migration")
		if err := Apply(conn, cfg.DBType); err != nil {
			if db.IsUnavailable(err) {
				log.Warn("skipping migrations, store unavailable", zap.Error(err))
				return nil
			}
			return err
		}
		log.Info("schema ready", zap.String("type", cfg.DBType))
		return nil
	}),
)

// DocumentModule creates the DynamoDB table when it is missing.
var DocumentModule = fx.Module("migrations.dynamodb",
	fx.Invoke(func(repo *repository.DynamoRepository, cfg config.Config, log *zap.Logger) error {
		log = log.Named("migration")
		timeout := cfg.DBConnectTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := repo.EnsureTable(ctx); err != nil {
			log.Warn("could not ensure document table, continuing degraded", zap.Error(err))
			return nil
		}
		log.Info("document table ready", zap.String("table", cfg.DatabaseURL))
		return nil
	}),
)
