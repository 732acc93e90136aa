package submission

import (
	"github.com/smallbiznis/eltrackr/internal/submission/domain"
	"github.com/smallbiznis/eltrackr/internal/submission/repository"
	"github.com/smallbiznis/eltrackr/internal/submission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("submission.service",
	fx.Provide(service.New),
)

// SQLRepositoryModule backs the service with the gorm handle from pkg/db.
var SQLRepositoryModule = fx.Module("submission.repository.sql",
	fx.Provide(repository.Provide),
)

// DocumentRepositoryModule backs the service with the DynamoDB table from pkg/docstore.
var DocumentRepositoryModule = fx.Module("submission.repository.dynamodb",
	fx.Provide(
		fx.Annotate(
			repository.ProvideDynamo,
			fx.As(fx.Self()),
			fx.As(new(domain.Repository)),
		),
	),
)
