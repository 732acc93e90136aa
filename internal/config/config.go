package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	NodeID      int64

	// DBType selects the store backend; DatabaseURL is its connection string
	// (a DSN for SQL drivers, a file path for sqlite, a table name for dynamodb).
	DBType            string
	DatabaseURL       string
	DBConnectTimeout  time.Duration
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime time.Duration

	DynamoDB DynamoDBConfig

	FootprintConfigPath string
}

type DynamoDBConfig struct {
	Region   string
	Endpoint string
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrUnsupportedDBType  = errors.New("unsupported DATABASE_TYPE")
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:             getenv("APP_SERVICE", "eltrackr"),
		AppVersion:          getenv("APP_VERSION", "0.1.0"),
		Environment:         getenv("ENVIRONMENT", "development"),
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		NodeID:              int64(getenvInt("SNOWFLAKE_NODE_ID", 1)),
		DBType:              strings.ToLower(strings.TrimSpace(getenv("DATABASE_TYPE", DriverPostgres))),
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBConnectTimeout:    getenvDuration("DATABASE_CONNECT_TIMEOUT", 5*time.Second),
		DBMaxIdleConn:       getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:       getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime:   getenvDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		FootprintConfigPath: getenv("FOOTPRINT_CONFIG_PATH", "."),
		DynamoDB: DynamoDBConfig{
			Region:   getenv("DYNAMODB_REGION", "us-east-1"),
			Endpoint: strings.TrimSpace(getenv("DYNAMODB_ENDPOINT", "")),
		},
	}
}

// Validate fails fast on configuration the process cannot run with.
func (c Config) Validate() error {
	switch c.DBType {
	case DriverPostgres, DriverMySQL, DriverSQLite, DriverDynamoDB:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDBType, c.DBType)
	}
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

func (c Config) IsDocumentStore() bool {
	return c.DBType == DriverDynamoDB
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
