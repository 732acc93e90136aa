package service

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/eltrackr/internal/clock"
	"github.com/smallbiznis/eltrackr/internal/footprint"
	"github.com/smallbiznis/eltrackr/internal/submission/domain"
	"github.com/smallbiznis/eltrackr/internal/submission/repository"
	dbpkg "github.com/smallbiznis/eltrackr/pkg/db"
	"github.com/smallbiznis/eltrackr/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Submission{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(testStart)
	svc := New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(db),
		Calc:  footprint.NewCalculator(nil),
		Clock: clk,
	})
	return svc, db, clk
}

func validInput() domain.SubmissionInput {
	return domain.SubmissionInput{
		Name:              "  Alice  ",
		Email:             " alice@example.com ",
		EnergyUsage:       100,
		WaterUsage:        150,
		TransportDistance: 30,
	}
}

func TestCreate_ComputesDerivedFields(t *testing.T) {
	svc, _, _ := setupService(t)

	got, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotZero(t, got.ID)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, 56.05, got.CO2Total)
	assert.Equal(t, footprint.PolicyStandard, got.Policy)
	require.Len(t, got.Recommendations, 2)
	assert.Equal(t, "Plant 1 tree(s) to offset your emissions.", got.Recommendations[1])
	assert.True(t, testStart.Equal(got.CreatedAt))
	assert.True(t, testStart.Equal(got.UpdatedAt))

	stored, err := svc.GetByID(context.Background(), got.ID.String())
	require.NoError(t, err)
	assert.Equal(t, got.CO2Total, stored.CO2Total)
	assert.Equal(t, []string(got.Recommendations), []string(stored.Recommendations))
}

func TestCreate_ValidationCollectsEveryField(t *testing.T) {
	svc, db, _ := setupService(t)

	_, err := svc.Create(context.Background(), domain.SubmissionInput{
		Name:              " ",
		Email:             "",
		EnergyUsage:       -1,
		WaterUsage:        5,
		TransportDistance: -2,
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	assert.ErrorIs(t, err, domain.ErrInvalidEnergyUsage)
	assert.ErrorIs(t, err, domain.ErrInvalidTransportDistance)
	assert.NotErrorIs(t, err, domain.ErrInvalidWaterUsage)

	var count int64
	require.NoError(t, db.Model(&domain.Submission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreate_RejectsFiguresThatWouldOverflow(t *testing.T) {
	svc, db, _ := setupService(t)

	input := validInput()
	input.EnergyUsage = 1e307
	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidEnergyUsage)

	input = validInput()
	input.WaterUsage = footprint.MaxFigure
	got, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, math.IsInf(got.CO2Total, 0))

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	_, err = json.Marshal(items)
	assert.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Submission{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetByID_Errors(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.GetByID(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(context.Background(), "123456789")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_RecomputesAndKeepsCreatedAt(t *testing.T) {
	svc, _, clk := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	input := validInput()
	input.EnergyUsage = 800
	input.WaterUsage = 20000
	input.TransportDistance = 300

	updated, err := svc.Update(ctx, created.ID.String(), input)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 466.0, updated.CO2Total)
	assert.Len(t, updated.Recommendations, 5)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	stored, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 466.0, stored.CO2Total)
	assert.True(t, testStart.Equal(stored.CreatedAt))
	assert.True(t, testStart.Add(2*time.Hour).Equal(stored.UpdatedAt))
}

func TestUpdate_Errors(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "123456789", validInput())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	bad := validInput()
	bad.WaterUsage = -3
	_, err = svc.Update(ctx, created.ID.String(), bad)
	assert.ErrorIs(t, err, domain.ErrInvalidWaterUsage)

	stored, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 150.0, stored.WaterUsage)
}

func TestDelete(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))

	_, err = svc.GetByID(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID.String()), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "nope"), domain.ErrInvalidID)
}

func TestListAndSummary(t *testing.T) {
	svc, _, clk := setupService(t)
	ctx := context.Background()

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Summary{}, summary)

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	clk.Advance(time.Minute)
	input := validInput()
	input.Name = "Bob"
	input.TransportDistance = 600
	second, err := svc.Create(ctx, input)
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)

	summary, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, footprint.Round2(first.CO2Total+second.CO2Total), summary.TotalCO2)
	assert.InDelta(t, (first.CO2Total+second.CO2Total)/2, summary.AverageCO2, 1e-9)
	require.NotNil(t, summary.Lowest)
	assert.Equal(t, first.ID, summary.Lowest.ID)
}

func TestListPage_WalksEveryRecordOnce(t *testing.T) {
	svc, _, clk := setupService(t)
	ctx := context.Background()

	// Pairs share a timestamp so the id breaks the tie across page edges.
	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		if i%2 == 1 {
			clk.Advance(time.Minute)
		}
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)

	var (
		walked []snowflake.ID
		sizes  []int
		token  string
	)
	for {
		page, err := svc.ListPage(ctx, domain.ListSubmissionRequest{PageToken: token, PageSize: 2})
		require.NoError(t, err)
		sizes = append(sizes, len(page.Submissions))
		for _, item := range page.Submissions {
			walked = append(walked, item.ID)
		}
		if !page.HasMore {
			assert.Empty(t, page.NextPageToken)
			break
		}
		require.NotEmpty(t, page.NextPageToken)
		token = page.NextPageToken
	}

	assert.Equal(t, []int{2, 2, 1}, sizes)
	want := make([]snowflake.ID, 0, len(all))
	for _, item := range all {
		want = append(want, item.ID)
	}
	assert.Equal(t, want, walked)
}

func TestListPage_ZeroSizeReturnsEverything(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
	}

	page, err := svc.ListPage(ctx, domain.ListSubmissionRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Submissions, 3)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextPageToken)
}

func TestListPage_RejectsMalformedToken(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	badID, err := pagination.EncodeCursor(pagination.Cursor{ID: "abc", CreatedAt: testStart.Format(time.RFC3339Nano)})
	require.NoError(t, err)
	badTime, err := pagination.EncodeCursor(pagination.Cursor{ID: "1234", CreatedAt: "yesterday"})
	require.NoError(t, err)

	for _, token := range []string{"%%%", badID, badTime} {
		_, err := svc.ListPage(ctx, domain.ListSubmissionRequest{PageToken: token, PageSize: 2})
		assert.ErrorIs(t, err, domain.ErrInvalidPageToken, token)
		assert.True(t, domain.IsValidationError(err))
	}
}

func TestStoreUnavailable(t *testing.T) {
	svc, db, _ := setupService(t)
	ctx := context.Background()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.ListPage(ctx, domain.ListSubmissionRequest{PageSize: 2})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.Create(ctx, validInput())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.GetByID(ctx, "123456789")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Ping(ctx), domain.ErrStoreUnavailable)
}
