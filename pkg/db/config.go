package db

import (
	"time"

	"github.com/smallbiznis/eltrackr/internal/config"
)

type Config struct {
	Type            string
	DSN             string
	ConnectTimeout  time.Duration
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime time.Duration
}

func ConfigFrom(cfg config.Config) Config {
	return Config{
		Type:            cfg.DBType,
		DSN:             cfg.DatabaseURL,
		ConnectTimeout:  cfg.DBConnectTimeout,
		MaxIdleConn:     cfg.DBMaxIdleConn,
		MaxOpenConn:     cfg.DBMaxOpenConn,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}
}
