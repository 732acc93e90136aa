package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bwmarrin/snowflake"
	"github.com/guregu/dynamo/v2"
	"github.com/smallbiznis/eltrackr/internal/submission/domain"
	"github.com/smallbiznis/eltrackr/pkg/docstore"
)

// submissionItem is the DynamoDB document for a submission.
type submissionItem struct {
	ID                string    `dynamo:"id,hash"`
	Name              string    `dynamo:"name"`
	Email             string    `dynamo:"email"`
	EnergyUsage       float64   `dynamo:"energy_usage"`
	WaterUsage        float64   `dynamo:"water_usage"`
	TransportDistance float64   `dynamo:"transport_distance"`
	CO2Total          float64   `dynamo:"co2_total"`
	Recommendations   []string  `dynamo:"recommendations"`
	Policy            string    `dynamo:"policy"`
	CreatedAt         time.Time `dynamo:"created_at"`
	UpdatedAt         time.Time `dynamo:"updated_at"`
}

// DynamoRepository stores submissions as DynamoDB documents keyed by id.
type DynamoRepository struct {
	db    *dynamo.DB
	table dynamo.Table
}

func ProvideDynamo(store *docstore.Store) *DynamoRepository {
	return &DynamoRepository{db: store.DB, table: store.Table}
}

// EnsureTable creates the submissions table with on-demand capacity when it does not exist.
func (r *DynamoRepository) EnsureTable(ctx context.Context) error {
	_, err := r.table.Describe().Run(ctx)
	if err == nil {
		return nil
	}
	var missing *types.ResourceNotFoundException
	if !errors.As(err, &missing) {
		return classifyDynamoErr(err)
	}
	return r.db.CreateTable(r.table.Name(), submissionItem{}).
		OnDemand(true).
		Run(ctx)
}

func (r *DynamoRepository) Insert(ctx context.Context, submission *domain.Submission) error {
	err := r.table.Put(toItem(submission)).
		If("attribute_not_exists('id')").
		Run(ctx)
	return classifyDynamoErr(err)
}

func (r *DynamoRepository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Submission, error) {
	var item submissionItem
	err := r.table.Get("id", id.String()).One(ctx, &item)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil
		}
		return nil, classifyDynamoErr(err)
	}
	return fromItem(item)
}

func (r *DynamoRepository) List(ctx context.Context) ([]*domain.Submission, error) {
	var items []submissionItem
	if err := r.table.Scan().All(ctx, &items); err != nil {
		return nil, classifyDynamoErr(err)
	}

	out := make([]*domain.Submission, 0, len(items))
	for _, item := range items {
		submission, err := fromItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, submission)
	}

	// Scan order is arbitrary; match the SQL ordering.
	slices.SortFunc(out, func(a, b *domain.Submission) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

func (r *DynamoRepository) Update(ctx context.Context, submission *domain.Submission) (bool, error) {
	err := r.table.Update("id", submission.ID.String()).
		Set("name", submission.Name).
		Set("email", submission.Email).
		Set("energy_usage", submission.EnergyUsage).
		Set("water_usage", submission.WaterUsage).
		Set("transport_distance", submission.TransportDistance).
		Set("co2_total", submission.CO2Total).
		Set("recommendations", []string(submission.Recommendations)).
		Set("policy", submission.Policy).
		Set("updated_at", submission.UpdatedAt).
		If("attribute_exists('id')").
		Run(ctx)
	if err != nil {
		if dynamo.IsCondCheckFailed(err) {
			return false, nil
		}
		return false, classifyDynamoErr(err)
	}
	return true, nil
}

func (r *DynamoRepository) Delete(ctx context.Context, id snowflake.ID) (bool, error) {
	err := r.table.Delete("id", id.String()).
		If("attribute_exists('id')").
		Run(ctx)
	if err != nil {
		if dynamo.IsCondCheckFailed(err) {
			return false, nil
		}
		return false, classifyDynamoErr(err)
	}
	return true, nil
}

func (r *DynamoRepository) Ping(ctx context.Context) error {
	_, err := r.table.Describe().Run(ctx)
	return classifyDynamoErr(err)
}

// classifyDynamoErr marks transport failures and a missing table as ErrStoreUnavailable.
func classifyDynamoErr(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	var missing *types.ResourceNotFoundException
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr),
		errors.As(err, &missing),
		strings.Contains(strings.ToLower(err.Error()), "connection refused"):
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	default:
		return err
	}
}

func toItem(s *domain.Submission) submissionItem {
	return submissionItem{
		ID:                s.ID.String(),
		Name:              s.Name,
		Email:             s.Email,
		EnergyUsage:       s.EnergyUsage,
		WaterUsage:        s.WaterUsage,
		TransportDistance: s.TransportDistance,
		CO2Total:          s.CO2Total,
		Recommendations:   []string(s.Recommendations),
		Policy:            s.Policy,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func fromItem(item submissionItem) (*domain.Submission, error) {
	id, err := snowflake.ParseString(item.ID)
	if err != nil {
		return nil, fmt.Errorf("decode submission id %q: %w", item.ID, err)
	}
	return &domain.Submission{
		ID:                id,
		Name:              item.Name,
		Email:             item.Email,
		EnergyUsage:       item.EnergyUsage,
		WaterUsage:        item.WaterUsage,
		TransportDistance: item.TransportDistance,
		CO2Total:          item.CO2Total,
		Recommendations:   item.Recommendations,
		Policy:            item.Policy,
		CreatedAt:         item.CreatedAt.UTC(),
		UpdatedAt:         item.UpdatedAt.UTC(),
	}, nil
}
