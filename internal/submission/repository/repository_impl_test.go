package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/eltrackr/internal/submission/domain"
	dbpkg "github.com/smallbiznis/eltrackr/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func setupRepo(t *testing.T) (domain.Repository, *snowflake.Node) {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Submission{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return Provide(db), node
}

func newSubmission(node *snowflake.Node, name string, createdAt time.Time) *domain.Submission {
	return &domain.Submission{
		ID:                node.Generate(),
		Name:              name,
		Email:             name + "@example.com",
		EnergyUsage:       100,
		WaterUsage:        150,
		TransportDistance: 30,
		CO2Total:          56.05,
		Recommendations:   datatypes.JSONSlice[string]{"low", "Plant 1 tree(s) to offset your emissions."},
		Policy:            "standard",
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
}

func TestRepository_InsertAndFind(t *testing.T) {
	repo, node := setupRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	item := newSubmission(node, "alice", now)
	require.NoError(t, repo.Insert(ctx, item))

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, 56.05, got.CO2Total)
	assert.Equal(t, []string{"low", "Plant 1 tree(s) to offset your emissions."}, []string(got.Recommendations))
	assert.True(t, now.Equal(got.CreatedAt))
}

func TestRepository_FindMissingReturnsNil(t *testing.T) {
	repo, node := setupRepo(t)

	got, err := repo.FindByID(context.Background(), node.Generate())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_FindZeroIDMatchesNothing(t *testing.T) {
	repo, node := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newSubmission(node, "alice", time.Now().UTC())))

	got, err := repo.FindByID(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_ListMostRecentFirst(t *testing.T) {
	repo, node := setupRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first := newSubmission(node, "first", base)
	second := newSubmission(node, "second", base.Add(time.Minute))
	third := newSubmission(node, "third", base.Add(time.Minute))
	for _, item := range []*domain.Submission{first, second, third} {
		require.NoError(t, repo.Insert(ctx, item))
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	// Equal timestamps fall back to the larger id.
	assert.Equal(t, "third", items[0].Name)
	assert.Equal(t, "second", items[1].Name)
	assert.Equal(t, "first", items[2].Name)
}

func TestRepository_UpdateReportsMatch(t *testing.T) {
	repo, node := setupRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	item := newSubmission(node, "alice", now)
	require.NoError(t, repo.Insert(ctx, item))

	changed := *item
	changed.Name = "alice b"
	changed.CO2Total = 250
	changed.UpdatedAt = now.Add(time.Hour)
	ok, err := repo.Update(ctx, &changed)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice b", got.Name)
	assert.Equal(t, 250.0, got.CO2Total)
	assert.True(t, now.Equal(got.CreatedAt))
	assert.True(t, now.Add(time.Hour).Equal(got.UpdatedAt))

	missing := newSubmission(node, "ghost", now)
	ok, err = repo.Update(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_DeleteReportsMatch(t *testing.T) {
	repo, node := setupRepo(t)
	ctx := context.Background()

	item := newSubmission(node, "alice", time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, item))

	ok, err := repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_Ping(t *testing.T) {
	repo, _ := setupRepo(t)
	require.NoError(t, repo.Ping(context.Background()))
}
