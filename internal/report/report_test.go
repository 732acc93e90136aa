package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/eltrackr/internal/submission/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestRenderProducesPDF(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out, err := New().Render(context.Background(), domain.Submission{
		ID:                42,
		Name:              "Alice",
		Email:             "alice@example.com",
		EnergyUsage:       100,
		WaterUsage:        150,
		TransportDistance: 30,
		CO2Total:          56.05,
		Recommendations:   datatypes.JSONSlice[string]{"Your footprint is low.", "Plant 1 tree(s) to offset your emissions."},
		Policy:            "standard",
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Render(ctx, domain.Submission{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUsageLines(t *testing.T) {
	lines := usageLines(domain.Submission{EnergyUsage: 1.5, WaterUsage: 2, TransportDistance: 0})
	require.Len(t, lines, 3)
	assert.Equal(t, "1.50", lines[0][1])
	assert.Equal(t, "0.00", lines[2][1])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "footprint-alice-smith-42.pdf", Filename(domain.Submission{ID: 42, Name: " Alice Smith "}))
	assert.Equal(t, "footprint-42.pdf", Filename(domain.Submission{ID: 42, Name: "  "}))
}
