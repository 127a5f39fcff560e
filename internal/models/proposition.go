package models

import (
	"math"

	"github.com/google/uuid"
)

// StatType identifies which box-score statistic a proposition is written on.
type StatType string

const (
	StatPoints               StatType = "points"
	StatAssists              StatType = "assists"
	StatRebounds             StatType = "rebounds"
	StatThreePointers        StatType = "three_pointers"
	StatSteals               StatType = "steals"
	StatBlocks               StatType = "blocks"
	StatPointsAssists        StatType = "points_assists"
	StatPointsReboundsAssists StatType = "points_rebounds_assists"
)

// IsValid reports whether the stat type is one the model understands.
func (s StatType) IsValid() bool {
	switch s {
	case StatPoints, StatAssists, StatRebounds, StatThreePointers,
		StatSteals, StatBlocks, StatPointsAssists, StatPointsReboundsAssists:
		return true
	default:
		return false
	}
}

// Direction represents the side of an over/under proposition.
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// IsValid reports whether the direction is over or under.
func (d Direction) IsValid() bool {
	return d == DirectionOver || d == DirectionUnder
}

// Proposition is a single over/under bet on one player's one stat in one game.
// Immutable once constructed.
type Proposition struct {
	PlayerID  uuid.UUID `json:"player_id" validate:"required,uuid4"`
	StatType  StatType  `json:"stat_type" validate:"required"`
	Line      float64   `json:"line" validate:"required"`
	Direction Direction `json:"direction" validate:"required,oneof=over under"`
}

// Validate checks the proposition for model-level validity. A non-finite or
// negative line or an unrecognized stat type or direction makes the
// proposition invalid.
func (p Proposition) Validate() error {
	if math.IsNaN(p.Line) || math.IsInf(p.Line, 0) || p.Line < 0 {
		return ErrInvalidProposition
	}
	if !p.StatType.IsValid() {
		return ErrInvalidProposition
	}
	if !p.Direction.IsValid() {
		return ErrInvalidProposition
	}
	return nil
}

// LegRecommendation is the advisory label attached to a leg evaluation.
type LegRecommendation string

const (
	RecommendationHit    LegRecommendation = "HIT"
	RecommendationMiss   LegRecommendation = "MISS"
	RecommendationTossUp LegRecommendation = "TOSS-UP"
)

// LegEvaluation is the result of running the probability model on a single
// proposition. Probability is always strictly inside the configured clamp
// interval; supporting statistics are included for transparency.
type LegEvaluation struct {
	Proposition    Proposition       `json:"proposition"`
	Probability    float64           `json:"probability" validate:"gt=0,lt=1"`
	Mean           float64           `json:"mean"`
	StdDev         float64           `json:"std_dev"`
	RecentMean     float64           `json:"recent_mean"`
	Trend          float64           `json:"trend"`
	MatchupShift   float64           `json:"matchup_shift"`
	EffectiveMean  float64           `json:"effective_mean"`
	EffectiveStd   float64           `json:"effective_std"`
	SampleSize     int               `json:"sample_size"`
	Recommendation LegRecommendation `json:"recommendation"`
}
