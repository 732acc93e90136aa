package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_CONNECT_TIMEOUT", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SNOWFLAKE_NODE_ID", "")

	cfg := Load()

	assert.Equal(t, DriverPostgres, cfg.DBType)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, int64(1), cfg.NodeID)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingDatabaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "  SQLite ")
	t.Setenv("DATABASE_URL", "eltrackr.db")
	t.Setenv("DATABASE_CONNECT_TIMEOUT", "2s")
	t.Setenv("DATABASE_MAX_OPEN_CONN", "not-a-number")
	t.Setenv("SNOWFLAKE_NODE_ID", "7")

	cfg := Load()

	assert.Equal(t, DriverSQLite, cfg.DBType)
	assert.Equal(t, "eltrackr.db", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, 20, cfg.DBMaxOpenConn)
	assert.Equal(t, int64(7), cfg.NodeID)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.IsDocumentStore())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Config{DBType: "mongodb", DatabaseURL: "mongodb://localhost"}

	assert.ErrorIs(t, cfg.Validate(), ErrUnsupportedDBType)
}
