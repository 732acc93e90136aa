// Package docstore opens the DynamoDB document store.
package docstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/guregu/dynamo/v2"
	"github.com/smallbiznis/eltrackr/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("docstore",
	fx.Provide(New),
)

// Store is a DynamoDB client bound to the table named by DATABASE_URL.
type Store struct {
	DB    *dynamo.DB
	Table dynamo.Table
}

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

// New builds the DynamoDB client. DATABASE_URL names the table.
func New(p Params) (*Store, error) {
	log := p.Log.Named("docstore")
	name := strings.TrimSpace(p.Cfg.DatabaseURL)
	if name == "" {
		return nil, errors.New("dynamodb table name is required")
	}

	timeout := p.Cfg.DBConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(p.Cfg.DynamoDB.Region))
	if err != nil {
		return nil, err
	}

	endpoint := p.Cfg.DynamoDB.Endpoint
	db := dynamo.New(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	table := db.Table(name)

	if _, err := table.Describe().Run(ctx); err != nil {
		log.Warn("document store unreachable at startup", zap.String("table", name), zap.Error(err))
	} else {
		log.Info("document store connected", zap.String("table", name))
	}

	return &Store{DB: db, Table: table}, nil
}
