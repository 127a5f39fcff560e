// Package parlay combines leg evaluations into a joint parlay probability.
//
// Legs are treated as independent: the combined probability is the product of
// the individual leg probabilities. This is a stated simplification — legs on
// different players in the same game are in reality weakly correlated through
// pace and score effects, and the combiner makes no attempt to model that.
package parlay

import (
	"github.com/yourusername/courtside/internal/models"
)

// DefaultMaxLegs bounds parlay size so near-zero combined probabilities are
// never presented as actionable.
const DefaultMaxLegs = 5

// Config holds combiner limits.
type Config struct {
	MaxLegs int
}

// Result is the combined outcome for an ordered list of legs. FairMultiplier
// is the payout at which the parlay has zero expected value; it is reported
// for transparency, not as betting advice.
type Result struct {
	Legs                []models.LegEvaluation `json:"legs"`
	CombinedProbability float64                `json:"combined_probability"`
	FairMultiplier      float64                `json:"fair_multiplier"`
}

// Combiner validates and combines legs. Stateless.
type Combiner struct {
	cfg Config
}

// NewCombiner creates a combiner, defaulting MaxLegs when unset.
func NewCombiner(cfg Config) *Combiner {
	if cfg.MaxLegs <= 0 {
		cfg.MaxLegs = DefaultMaxLegs
	}
	return &Combiner{cfg: cfg}
}

// Combine multiplies the leg probabilities and derives the implied fair
// payout multiplier. Empty input and oversized parlays are input errors.
func (c *Combiner) Combine(legs []models.LegEvaluation) (*Result, error) {
	if len(legs) == 0 {
		return nil, models.ErrEmptyParlay
	}
	if len(legs) > c.cfg.MaxLegs {
		return nil, models.ErrTooManyLegs
	}

	combined := 1.0
	for _, leg := range legs {
		combined *= leg.Probability
	}

	return &Result{
		Legs:                legs,
		CombinedProbability: combined,
		FairMultiplier:      1.0 / combined,
	}, nil
}

// Edge returns the expected value of the parlay at the book's offered payout
// multiplier: positive when the offered payout exceeds the fair one.
func Edge(combinedProbability, bookMultiplier float64) float64 {
	return combinedProbability*bookMultiplier - 1.0
}
