package db

import (
	"fmt"
	"sync/atomic"

	"github.com/smallbiznis/eltrackr/internal/config"
	"gorm.io/gorm"
)

var testSeq atomic.Int64

// NewTest opens a private in-memory sqlite database for tests.
func NewTest() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:eltrackr_test_%d?mode=memory&cache=shared", testSeq.Add(1))
	return Open(Config{
		Type:        config.DriverSQLite,
		DSN:         dsn,
		MaxOpenConn: 1,
	})
}
