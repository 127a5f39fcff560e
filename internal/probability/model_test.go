package probability

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/stats"
)

func overProp(line float64) models.Proposition {
	return models.Proposition{
		PlayerID:  uuid.New(),
		StatType:  models.StatPoints,
		Line:      line,
		Direction: models.DirectionOver,
	}
}

func underProp(line float64) models.Proposition {
	p := overProp(line)
	p.Direction = models.DirectionUnder
	return p
}

func TestEvaluateLegOverAboveAverage(t *testing.T) {
	m := NewModel(DefaultConfig())

	// A 27.3 ppg scorer against a 25.5 line should clear 50% on the over.
	sum := stats.Summary{Mean: 27.3, StdDev: 6.1, RecentMean: 27.3, SampleSize: 40, WindowSize: 10}

	eval, err := m.EvaluateLeg(overProp(25.5), sum, 0)
	require.NoError(t, err)

	assert.Greater(t, eval.Probability, 0.5)
	assert.Less(t, eval.Probability, 0.7)
	assert.Equal(t, models.RecommendationHit, eval.Recommendation)
}

func TestEvaluateLegOverUnderComplement(t *testing.T) {
	m := NewModel(DefaultConfig())
	sum := stats.Summary{Mean: 20, StdDev: 5, RecentMean: 20, SampleSize: 30}

	over, err := m.EvaluateLeg(overProp(22.5), sum, 0)
	require.NoError(t, err)
	under, err := m.EvaluateLeg(underProp(22.5), sum, 0)
	require.NoError(t, err)

	// Continuity correction evaluates over at line+0.5 and under at line-0.5,
	// so the pair sums to slightly more than 1.
	total := over.Probability + under.Probability
	assert.Greater(t, total, 1.0)
	assert.Less(t, total, 1.2)
}

func TestEvaluateLegClampedToOpenInterval(t *testing.T) {
	m := NewModel(DefaultConfig())

	// Line far below a high, tight average: raw probability would round to 1.
	sum := stats.Summary{Mean: 35, StdDev: 1, RecentMean: 35, SampleSize: 50}
	eval, err := m.EvaluateLeg(overProp(5.5), sum, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultProbabilityCeiling, eval.Probability)

	// And far above it: raw probability would round to 0.
	eval, err = m.EvaluateLeg(overProp(70.5), sum, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultProbabilityFloor, eval.Probability)
}

func TestEvaluateLegStdFloorForConstantSeries(t *testing.T) {
	m := NewModel(DefaultConfig())

	// A single observation has zero sample deviation; the floor keeps the
	// tail computation finite.
	sum := stats.Summary{Mean: 22, StdDev: 0, RecentMean: 22, SampleSize: 1}

	eval, err := m.EvaluateLeg(overProp(21.5), sum, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultStdFloor, eval.EffectiveStd)
	assert.False(t, math.IsNaN(eval.Probability))
	assert.GreaterOrEqual(t, eval.Probability, DefaultProbabilityFloor)
	assert.LessOrEqual(t, eval.Probability, DefaultProbabilityCeiling)
}

func TestEvaluateLegDeterministic(t *testing.T) {
	m := NewModel(DefaultConfig())
	sum := stats.Summary{Mean: 18.4, StdDev: 4.2, RecentMean: 20.1, Trend: 1.7, SampleSize: 25}
	prop := overProp(19.5)

	first, err := m.EvaluateLeg(prop, sum, 0.8)
	require.NoError(t, err)
	second, err := m.EvaluateLeg(prop, sum, 0.8)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEvaluateLegTrendShiftsMean(t *testing.T) {
	m := NewModel(DefaultConfig())

	flat := stats.Summary{Mean: 20, StdDev: 5, RecentMean: 20, Trend: 0, SampleSize: 30}
	hot := stats.Summary{Mean: 20, StdDev: 5, RecentMean: 25, Trend: 5, SampleSize: 30}

	flatEval, err := m.EvaluateLeg(overProp(20.5), flat, 0)
	require.NoError(t, err)
	hotEval, err := m.EvaluateLeg(overProp(20.5), hot, 0)
	require.NoError(t, err)

	assert.InDelta(t, 20+DefaultTrendWeight*5, hotEval.EffectiveMean, 1e-9)
	assert.Greater(t, hotEval.Probability, flatEval.Probability)
}

func TestEvaluateLegMatchupShiftCapped(t *testing.T) {
	m := NewModel(DefaultConfig())
	sum := stats.Summary{Mean: 20, StdDev: 5, RecentMean: 20, SampleSize: 30}

	eval, err := m.EvaluateLeg(overProp(20.5), sum, 100)
	require.NoError(t, err)
	assert.InDelta(t, DefaultMatchupCapFraction*20, eval.MatchupShift, 1e-9)

	eval, err = m.EvaluateLeg(overProp(20.5), sum, -100)
	require.NoError(t, err)
	assert.InDelta(t, -DefaultMatchupCapFraction*20, eval.MatchupShift, 1e-9)
}

func TestEvaluateLegInvalidInputs(t *testing.T) {
	m := NewModel(DefaultConfig())
	sum := stats.Summary{Mean: 20, StdDev: 5, SampleSize: 30}

	_, err := m.EvaluateLeg(overProp(-1), sum, 0)
	assert.ErrorIs(t, err, models.ErrInvalidProposition)

	bad := overProp(20.5)
	bad.StatType = "turnstiles"
	_, err = m.EvaluateLeg(bad, sum, 0)
	assert.ErrorIs(t, err, models.ErrInvalidProposition)

	nan := overProp(20.5)
	nan.Line = math.NaN()
	_, err = m.EvaluateLeg(nan, sum, 0)
	assert.ErrorIs(t, err, models.ErrInvalidProposition)

	_, err = m.EvaluateLeg(overProp(20.5), stats.Summary{}, 0)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestRecommendationBands(t *testing.T) {
	assert.Equal(t, models.RecommendationHit, recommend(0.56))
	assert.Equal(t, models.RecommendationTossUp, recommend(0.55))
	assert.Equal(t, models.RecommendationTossUp, recommend(0.50))
	assert.Equal(t, models.RecommendationTossUp, recommend(0.45))
	assert.Equal(t, models.RecommendationMiss, recommend(0.44))
}

func TestNewModelZeroConfigUsesDefaults(t *testing.T) {
	m := NewModel(Config{})
	assert.Equal(t, DefaultConfig(), m.cfg)
}
