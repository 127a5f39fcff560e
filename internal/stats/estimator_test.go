package stats

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

func TestSummarizeBasic(t *testing.T) {
	values := []float64{20, 25, 30, 22, 28}

	sum, err := Summarize(values, 3)
	require.NoError(t, err)

	assert.InDelta(t, 25.0, sum.Mean, 1e-9)
	assert.Equal(t, 5, sum.SampleSize)
	assert.Equal(t, 3, sum.WindowSize)

	// Recent window covers the last 3 values: 30, 22, 28
	assert.InDelta(t, 80.0/3.0, sum.RecentMean, 1e-9)
	assert.InDelta(t, sum.RecentMean-sum.Mean, sum.Trend, 1e-9)
}

func TestSummarizeSampleStdDev(t *testing.T) {
	// Sample variance of {2, 4, 4, 4, 5, 5, 7, 9} with Bessel's correction
	// is 32/7.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	sum, err := Summarize(values, 8)
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt(32.0/7.0), sum.StdDev, 1e-9)
}

func TestSummarizeSingleObservation(t *testing.T) {
	sum, err := Summarize([]float64{18}, 10)
	require.NoError(t, err)

	assert.Equal(t, 18.0, sum.Mean)
	assert.Equal(t, 0.0, sum.StdDev)
	assert.Equal(t, 18.0, sum.RecentMean)
	assert.Equal(t, 0.0, sum.Trend)
	assert.Equal(t, 1, sum.SampleSize)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil, 10)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestSummarizeWindowClipped(t *testing.T) {
	values := []float64{10, 20}

	sum, err := Summarize(values, 10)
	require.NoError(t, err)

	// Window larger than the set degenerates to the full set: no trend.
	assert.Equal(t, 2, sum.WindowSize)
	assert.Equal(t, 0.0, sum.Trend)
}

func TestSummarizeZeroWindowDefaultsToFull(t *testing.T) {
	sum, err := Summarize([]float64{1, 2, 3}, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.WindowSize)
}

func TestSummarizeConstantSeries(t *testing.T) {
	sum, err := Summarize([]float64{12, 12, 12, 12}, 2)
	require.NoError(t, err)

	assert.Equal(t, 0.0, sum.StdDev)
	assert.Equal(t, 0.0, sum.Trend)
}

func TestObservationsComboStats(t *testing.T) {
	playerID := uuid.New()
	logs := []*models.GameLog{
		{PlayerID: playerID, Points: 20, Rebounds: 8, Assists: 5},
		{PlayerID: playerID, Points: 30, Rebounds: 10, Assists: 7},
	}

	pts := Observations(logs, models.StatPoints)
	assert.Equal(t, []float64{20, 30}, pts)

	pa := Observations(logs, models.StatPointsAssists)
	assert.Equal(t, []float64{25, 37}, pa)

	pra := Observations(logs, models.StatPointsReboundsAssists)
	assert.Equal(t, []float64{33, 47}, pra)
}
