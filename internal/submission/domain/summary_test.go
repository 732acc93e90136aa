package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarizeTieKeepsMostRecent(t *testing.T) {
	items := []Submission{
		{ID: 3, CO2Total: 10},
		{ID: 2, CO2Total: 10},
		{ID: 1, CO2Total: 30},
	}

	summary := Summarize(items)
	assert.Equal(t, 3, summary.TotalCount)
	assert.Equal(t, 50.0, summary.TotalCO2)
	assert.Equal(t, 50.0/3, summary.AverageCO2)
	require.NotNil(t, summary.Lowest)
	assert.Equal(t, snowflake.ID(3), summary.Lowest.ID)
}

func TestSummarizeAverageUsesUnroundedSum(t *testing.T) {
	items := []Submission{
		{ID: 2, CO2Total: 0.005},
		{ID: 1, CO2Total: 0.005},
	}

	summary := Summarize(items)
	assert.Equal(t, 0.01, summary.TotalCO2)
	assert.InDelta(t, 0.005, summary.AverageCO2, 1e-12)
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrInvalidEmail))
	assert.False(t, IsValidationError(ErrNotFound))
	assert.False(t, IsValidationError(ErrStoreUnavailable))
}
