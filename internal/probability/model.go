// Package probability converts a proposition and its observation summary into
// a calibrated hit probability.
//
// The stat is modeled as a normal distribution around a trend- and
// matchup-adjusted mean, with a continuity correction of 0.5 toward the
// favorable side since the underlying counts are integers. The result is
// clamped to an open interval so the model never claims certainty.
package probability

import (
	"math"

	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/stats"
)

// Model constants.
// trendWeight     = partial regression of recent form toward the season mean
// stdFloor        = minimum dispersion, prevents degenerate probabilities on
//                   short or constant observation sets
// matchupCap      = matchup shift bound as a fraction of the raw mean
// probFloor/Ceil  = open clamp interval for returned probabilities
const (
	DefaultTrendWeight        = 0.3
	DefaultStdFloor           = 1.0
	DefaultMatchupCapFraction = 0.15
	DefaultProbabilityFloor   = 0.01
	DefaultProbabilityCeiling = 0.99

	continuityCorrection = 0.5
)

// Config holds the model's tuning constants. All fields are read-only once
// the model is constructed.
type Config struct {
	TrendWeight        float64
	StdFloor           float64
	MatchupCapFraction float64
	ProbabilityFloor   float64
	ProbabilityCeiling float64
}

// DefaultConfig returns the documented default constants.
func DefaultConfig() Config {
	return Config{
		TrendWeight:        DefaultTrendWeight,
		StdFloor:           DefaultStdFloor,
		MatchupCapFraction: DefaultMatchupCapFraction,
		ProbabilityFloor:   DefaultProbabilityFloor,
		ProbabilityCeiling: DefaultProbabilityCeiling,
	}
}

// Model evaluates propositions. Stateless and safe for concurrent use.
type Model struct {
	cfg Config
}

// NewModel creates a model, substituting defaults for zero-valued constants.
func NewModel(cfg Config) *Model {
	if cfg.TrendWeight == 0 {
		cfg.TrendWeight = DefaultTrendWeight
	}
	if cfg.StdFloor == 0 {
		cfg.StdFloor = DefaultStdFloor
	}
	if cfg.MatchupCapFraction == 0 {
		cfg.MatchupCapFraction = DefaultMatchupCapFraction
	}
	if cfg.ProbabilityFloor == 0 {
		cfg.ProbabilityFloor = DefaultProbabilityFloor
	}
	if cfg.ProbabilityCeiling == 0 {
		cfg.ProbabilityCeiling = DefaultProbabilityCeiling
	}
	return &Model{cfg: cfg}
}

// EvaluateLeg produces a leg evaluation for the proposition given its
// observation summary. matchupShift is an additive adjustment to the expected
// mean derived from opponent characteristics; pass 0 when no opponent data is
// supplied. The shift is capped at ±MatchupCapFraction of the raw mean to
// prevent runaway extrapolation from thin data.
//
// Pure function of its inputs: identical inputs yield identical output.
func (m *Model) EvaluateLeg(prop models.Proposition, sum stats.Summary, matchupShift float64) (*models.LegEvaluation, error) {
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	if sum.SampleSize == 0 {
		return nil, models.ErrInsufficientData
	}

	cap := m.cfg.MatchupCapFraction * math.Abs(sum.Mean)
	shift := clamp(matchupShift, -cap, cap)

	effectiveMean := sum.Mean + m.cfg.TrendWeight*sum.Trend + shift
	effectiveStd := math.Max(sum.StdDev, m.cfg.StdFloor)

	var p float64
	switch prop.Direction {
	case models.DirectionOver:
		p = upperTail(prop.Line+continuityCorrection, effectiveMean, effectiveStd)
	case models.DirectionUnder:
		p = 1 - upperTail(prop.Line-continuityCorrection, effectiveMean, effectiveStd)
	}
	p = clamp(p, m.cfg.ProbabilityFloor, m.cfg.ProbabilityCeiling)

	return &models.LegEvaluation{
		Proposition:    prop,
		Probability:    p,
		Mean:           sum.Mean,
		StdDev:         sum.StdDev,
		RecentMean:     sum.RecentMean,
		Trend:          sum.Trend,
		MatchupShift:   shift,
		EffectiveMean:  effectiveMean,
		EffectiveStd:   effectiveStd,
		SampleSize:     sum.SampleSize,
		Recommendation: recommend(p),
	}, nil
}

// upperTail returns P(X > x) for a normal distribution with the given mean
// and standard deviation.
func upperTail(x, mean, std float64) float64 {
	z := (x - mean) / (std * math.Sqrt2)
	return 0.5 * math.Erfc(z)
}

func recommend(p float64) models.LegRecommendation {
	switch {
	case p > 0.55:
		return models.RecommendationHit
	case p < 0.45:
		return models.RecommendationMiss
	default:
		return models.RecommendationTossUp
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
