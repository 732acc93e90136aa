package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/eltrackr/internal/clock"
	"github.com/smallbiznis/eltrackr/internal/footprint"
	"github.com/smallbiznis/eltrackr/internal/observability/metrics"
	"github.com/smallbiznis/eltrackr/internal/submission/domain"
	"github.com/smallbiznis/eltrackr/pkg/db"
	"github.com/smallbiznis/eltrackr/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Calc    *footprint.Calculator
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	calc    *footprint.Calculator
	clock   clock.Clock
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	calc := p.Calc
	if calc == nil {
		calc = footprint.NewCalculator(nil)
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		log:     p.Log.Named("submission.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		calc:    calc,
		clock:   clk,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, input domain.SubmissionInput) (domain.Submission, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return domain.Submission{}, err
	}

	result, policy, err := s.calc.Compute(input.EnergyUsage, input.WaterUsage, input.TransportDistance)
	if err != nil {
		return domain.Submission{}, usageError(err)
	}

	now := s.clock.Now()
	submission := domain.Submission{
		ID:                s.genID.Generate(),
		Name:              input.Name,
		Email:             input.Email,
		EnergyUsage:       input.EnergyUsage,
		WaterUsage:        input.WaterUsage,
		TransportDistance: input.TransportDistance,
		CO2Total:          result.CO2Total,
		Recommendations:   datatypes.JSONSlice[string](result.Recommendations),
		Policy:            policy.Name,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, &submission); err != nil {
		return domain.Submission{}, s.storeError(ctx, "create", err)
	}

	s.metrics.RecordSubmissionWrite(ctx, "create", string(result.Tier))
	s.log.Info("submission created",
		zap.String("submission_id", submission.ID.String()),
		zap.Float64("co2_total", submission.CO2Total),
		zap.String("tier", string(result.Tier)),
	)

	return submission, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Submission, error) {
	submissionID, err := s.parseID(id)
	if err != nil {
		return domain.Submission{}, err
	}

	item, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, s.storeError(ctx, "get", err)
	}
	if item == nil {
		return domain.Submission{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Submission, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "list", err)
	}

	submissions := make([]domain.Submission, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		submissions = append(submissions, *item)
	}

	return submissions, nil
}

// ListPage walks the ordered list from just past the cursor. Both stores
// return the full ordered set, so the cut happens here.
func (s *Service) ListPage(ctx context.Context, req domain.ListSubmissionRequest) (domain.ListSubmissionResponse, error) {
	var after *pageCursor
	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := decodePageCursor(token)
		if err != nil {
			return domain.ListSubmissionResponse{}, domain.ErrInvalidPageToken
		}
		after = &cursor
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return domain.ListSubmissionResponse{}, s.storeError(ctx, "list", err)
	}

	start := 0
	if after != nil {
		for start < len(items) && (items[start] == nil || !after.isPast(items[start])) {
			start++
		}
	}
	items = items[start:]

	pageSize := req.PageSize
	if pageSize > 0 && len(items) > int(pageSize)+1 {
		items = items[:pageSize+1]
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(item *domain.Submission) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	submissions := make([]domain.Submission, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		submissions = append(submissions, *item)
	}

	return domain.ListSubmissionResponse{
		PageInfo:    *pageInfo,
		Submissions: submissions,
	}, nil
}

type pageCursor struct {
	id        snowflake.ID
	createdAt time.Time
}

func decodePageCursor(token string) (pageCursor, error) {
	cursor, err := pagination.DecodeCursor(token)
	if err != nil {
		return pageCursor{}, err
	}
	id, err := snowflake.ParseString(cursor.ID)
	if err != nil || id <= 0 {
		return pageCursor{}, domain.ErrInvalidPageToken
	}
	createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
	if err != nil {
		return pageCursor{}, err
	}
	return pageCursor{id: id, createdAt: createdAt}, nil
}

// isPast reports whether item sorts after the cursor in created_at desc,
// id desc order.
func (c pageCursor) isPast(item *domain.Submission) bool {
	if item.CreatedAt.Equal(c.createdAt) {
		return item.ID < c.id
	}
	return item.CreatedAt.Before(c.createdAt)
}

func (s *Service) Update(ctx context.Context, id string, input domain.SubmissionInput) (domain.Submission, error) {
	submissionID, err := s.parseID(id)
	if err != nil {
		return domain.Submission{}, err
	}

	input, err = normalizeInput(input)
	if err != nil {
		return domain.Submission{}, err
	}

	result, policy, err := s.calc.Compute(input.EnergyUsage, input.WaterUsage, input.TransportDistance)
	if err != nil {
		return domain.Submission{}, usageError(err)
	}

	existing, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, s.storeError(ctx, "update", err)
	}
	if existing == nil {
		return domain.Submission{}, domain.ErrNotFound
	}

	updated := *existing
	updated.Name = input.Name
	updated.Email = input.Email
	updated.EnergyUsage = input.EnergyUsage
	updated.WaterUsage = input.WaterUsage
	updated.TransportDistance = input.TransportDistance
	updated.CO2Total = result.CO2Total
	updated.Recommendations = datatypes.JSONSlice[string](result.Recommendations)
	updated.Policy = policy.Name
	updated.UpdatedAt = s.clock.Now()

	ok, err := s.repo.Update(ctx, &updated)
	if err != nil {
		return domain.Submission{}, s.storeError(ctx, "update", err)
	}
	if !ok {
		// Removed between the read and the write.
		return domain.Submission{}, domain.ErrNotFound
	}

	s.metrics.RecordSubmissionWrite(ctx, "update", string(result.Tier))
	s.log.Info("submission updated",
		zap.String("submission_id", updated.ID.String()),
		zap.Float64("co2_total", updated.CO2Total),
	)

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	submissionID, err := s.parseID(id)
	if err != nil {
		return err
	}

	ok, err := s.repo.Delete(ctx, submissionID)
	if err != nil {
		return s.storeError(ctx, "delete", err)
	}
	if !ok {
		return domain.ErrNotFound
	}

	s.metrics.RecordSubmissionWrite(ctx, "delete", "")
	s.log.Info("submission deleted", zap.String("submission_id", submissionID.String()))
	return nil
}

func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	items, err := s.List(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(items), nil
}

func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return s.storeError(ctx, "ping", err)
	}
	return nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func (s *Service) storeError(ctx context.Context, op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) || db.IsUnavailable(err) {
		s.metrics.RecordStoreError(ctx, op)
		s.log.Warn("store unavailable", zap.String("operation", op), zap.Error(err))
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	s.log.Error("store operation failed", zap.String("operation", op), zap.Error(err))
	return err
}

// normalizeInput trims the text fields and collects every field error.
func normalizeInput(input domain.SubmissionInput) (domain.SubmissionInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	var errs []error
	if input.Name == "" {
		errs = append(errs, domain.ErrInvalidName)
	}
	if input.Email == "" {
		errs = append(errs, domain.ErrInvalidEmail)
	}

	usage := footprint.Usage{
		Energy:    input.EnergyUsage,
		Water:     input.WaterUsage,
		Transport: input.TransportDistance,
	}
	for _, field := range usage.Invalid() {
		errs = append(errs, fieldError(field))
	}

	if len(errs) > 0 {
		return input, errors.Join(errs...)
	}
	return input, nil
}

func usageError(err error) error {
	var usageErr *footprint.UsageError
	if errors.As(err, &usageErr) {
		return fieldError(usageErr.Field)
	}
	return err
}

func fieldError(field string) error {
	switch field {
	case footprint.FieldEnergy:
		return domain.ErrInvalidEnergyUsage
	case footprint.FieldWater:
		return domain.ErrInvalidWaterUsage
	default:
		return domain.ErrInvalidTransportDistance
	}
}
