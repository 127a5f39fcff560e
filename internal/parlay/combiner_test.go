package parlay

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

func leg(p float64) models.LegEvaluation {
	return models.LegEvaluation{
		Proposition: models.Proposition{
			PlayerID:  uuid.New(),
			StatType:  models.StatPoints,
			Line:      20.5,
			Direction: models.DirectionOver,
		},
		Probability: p,
	}
}

func TestCombineProduct(t *testing.T) {
	c := NewCombiner(Config{})

	result, err := c.Combine([]models.LegEvaluation{leg(0.6), leg(0.5), leg(0.7)})
	require.NoError(t, err)

	assert.InDelta(t, 0.21, result.CombinedProbability, 1e-9)
	assert.InDelta(t, 1.0/0.21, result.FairMultiplier, 1e-9)
	assert.Len(t, result.Legs, 3)
}

func TestCombineSingleLeg(t *testing.T) {
	c := NewCombiner(Config{})

	result, err := c.Combine([]models.LegEvaluation{leg(0.62)})
	require.NoError(t, err)

	assert.InDelta(t, 0.62, result.CombinedProbability, 1e-9)
}

func TestCombineCombinedBelowWeakestLeg(t *testing.T) {
	c := NewCombiner(Config{})

	legs := []models.LegEvaluation{leg(0.9), leg(0.55), leg(0.8)}
	result, err := c.Combine(legs)
	require.NoError(t, err)

	for _, l := range legs {
		assert.LessOrEqual(t, result.CombinedProbability, l.Probability)
	}
}

func TestCombineEmpty(t *testing.T) {
	c := NewCombiner(Config{})

	_, err := c.Combine(nil)
	assert.ErrorIs(t, err, models.ErrEmptyParlay)
}

func TestCombineTooManyLegs(t *testing.T) {
	c := NewCombiner(Config{MaxLegs: 3})

	legs := []models.LegEvaluation{leg(0.6), leg(0.6), leg(0.6), leg(0.6)}
	_, err := c.Combine(legs)
	assert.ErrorIs(t, err, models.ErrTooManyLegs)

	// Exactly at the limit is fine.
	_, err = c.Combine(legs[:3])
	assert.NoError(t, err)
}

func TestEdge(t *testing.T) {
	// Book pays 5.0 on a parlay we price at 25%: expected value is 1.25 per
	// unit staked, an edge of +0.25.
	assert.InDelta(t, 0.25, Edge(0.25, 5.0), 1e-9)

	// Book pays 3.0 on the same parlay: a losing proposition.
	assert.InDelta(t, -0.25, Edge(0.25, 3.0), 1e-9)
}
