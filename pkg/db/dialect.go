package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/eltrackr/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Dialect(cfg Config) (gorm.Dialector, error) {
	switch cfg.Type {
	case config.DriverMySQL:
		// Skip the version query so building the dialect never dials the server.
		return mysql.New(mysql.Config{
			DSN:                       cfg.DSN,
			SkipInitializeWithVersion: true,
		}), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.Type)
	}
}
