package db

import (
	"context"
	"time"

	"github.com/smallbiznis/eltrackr/internal/config"
	obslogger "github.com/smallbiznis/eltrackr/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

const defaultConnectTimeout = 5 * time.Second

var Module = fx.Module("db",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg config.Config
	Log *zap.Logger
}

// New opens the SQL store. The handle is created without contacting the
// server; a single bounded ping follows and a failure there only degrades
// the process, since every later call classifies its own errors.
func New(p Params) (*gorm.DB, error) {
	cfg := ConfigFrom(p.Cfg)
	log := p.Log.Named("db")

	conn, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := conn.Use(otelgorm.NewPlugin()); err != nil {
		return nil, err
	}
	if err := conn.Use(gormprometheus.New(gormprometheus.Config{
		DBName:          p.Cfg.AppName,
		RefreshInterval: 15,
	})); err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		log.Warn("store unreachable at startup", zap.String("type", cfg.Type), zap.Error(err))
	} else {
		log.Info("store connected", zap.String("type", cfg.Type))
	}

	p.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing store connection")
			return sqlDB.Close()
		},
	})

	return conn, nil
}

// Open builds a gorm handle with pool limits applied and no eager ping.
func Open(cfg Config) (*gorm.DB, error) {
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialect, &gorm.Config{
		Logger:               obslogger.NewGormLogger(obslogger.DefaultGormLoggerConfig()),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return conn, nil
}
