package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/eltrackr/internal/submission/domain"
	"github.com/smallbiznis/eltrackr/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	db    *gorm.DB
	store repository.Repository[domain.Submission]
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{
		db:    db,
		store: repository.ProvideStore[domain.Submission](db),
	}
}

func (r *repo) Insert(ctx context.Context, submission *domain.Submission) error {
	return r.store.Create(ctx, submission)
}

// FindByID matches nothing for a zero id; the zero-value query would
// otherwise select an arbitrary row.
func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Submission, error) {
	if id <= 0 {
		return nil, nil
	}
	return r.store.FindOne(ctx, &domain.Submission{ID: id})
}

func (r *repo) List(ctx context.Context) ([]*domain.Submission, error) {
	return r.store.Find(ctx, nil, repository.OrderBy("created_at desc, id desc"))
}

// Update never touches created_at.
func (r *repo) Update(ctx context.Context, submission *domain.Submission) (bool, error) {
	n, err := r.store.Update(ctx, submission.ID, map[string]any{
		"name":               submission.Name,
		"email":              submission.Email,
		"energy_usage":       submission.EnergyUsage,
		"water_usage":        submission.WaterUsage,
		"transport_distance": submission.TransportDistance,
		"co2_total":          submission.CO2Total,
		"recommendations":    submission.Recommendations,
		"policy":             submission.Policy,
		"updated_at":         submission.UpdatedAt,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) (bool, error) {
	n, err := r.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
