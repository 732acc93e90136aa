package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/eltrackr/internal/clock"
	"github.com/smallbiznis/eltrackr/internal/config"
	"github.com/smallbiznis/eltrackr/internal/footprint"
	"github.com/smallbiznis/eltrackr/internal/migration"
	"github.com/smallbiznis/eltrackr/internal/observability"
	"github.com/smallbiznis/eltrackr/internal/server"
	"github.com/smallbiznis/eltrackr/internal/submission"
	"github.com/smallbiznis/eltrackr/pkg/db"
	"github.com/smallbiznis/eltrackr/pkg/docstore"
	"go.uber.org/fx"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app := fx.New(
		fx.Supply(cfg),
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		footprint.Module,

		storeModule(cfg),
		submission.Module,

		server.Module,
	)
	app.Run()
}

// storeModule wires the repository backend selected by DATABASE_TYPE.
func storeModule(cfg config.Config) fx.Option {
	if cfg.IsDocumentStore() {
		return fx.Options(
			docstore.Module,
			submission.DocumentRepositoryModule,
			migration.DocumentModule,
		)
	}
	return fx.Options(
		db.Module,
		submission.SQLRepositoryModule,
		migration.SQLModule,
	)
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
