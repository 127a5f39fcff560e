// Package matchup derives a bounded shift to a player's expected mean from
// the opposing team's defensive rating and pace.
package matchup

import (
	"context"
	"fmt"

	"github.com/yourusername/courtside/internal/models"
)

// League averages and bounds for the two adjustment factors. The defensive
// factor scales with how far the opponent sits from the league-average
// rating; the pace factor scales with expected possessions.
const (
	LeagueAvgDefensiveRating = 112.0
	LeagueAvgPace            = 98.5

	defenseScale  = 0.6
	minDefFactor  = 0.85
	maxDefFactor  = 1.15
	minPaceFactor = 0.92
	maxPaceFactor = 1.08

	homeFactor = 1.05
	awayFactor = 0.95
)

// TeamStatsSource yields current opponent-level statistics.
type TeamStatsSource interface {
	TeamStats(ctx context.Context, abbreviation string) (*models.TeamStats, error)
}

// Analyzer computes matchup shifts. Read-only; safe for concurrent use.
type Analyzer struct {
	source TeamStatsSource
}

// NewAnalyzer creates a matchup analyzer over the given team-stats source.
func NewAnalyzer(source TeamStatsSource) *Analyzer {
	return &Analyzer{source: source}
}

// MeanShift returns the additive adjustment to apply to a player's raw mean
// when facing the given opponent at the given venue. An empty opponent yields
// a zero shift. The probability model applies its own cap on top of the
// factor bounds here.
func (a *Analyzer) MeanShift(ctx context.Context, opponent string, home bool, mean float64) (float64, error) {
	if opponent == "" {
		return 0, nil
	}

	ts, err := a.source.TeamStats(ctx, opponent)
	if err != nil {
		return 0, fmt.Errorf("failed to get team stats for %s: %w", opponent, err)
	}

	factor := defensiveFactor(ts.DefensiveRating) * paceFactor(ts.Pace) * venueFactor(home)
	return mean * (factor - 1.0), nil
}

// defensiveFactor maps a defensive rating to a multiplier: elite defenses
// suppress output, weak defenses inflate it.
func defensiveFactor(rating float64) float64 {
	f := 1.0 + (rating-LeagueAvgDefensiveRating)/LeagueAvgDefensiveRating*defenseScale
	return boundFactor(f, minDefFactor, maxDefFactor)
}

// paceFactor maps possessions per game to a multiplier: more possessions,
// more counting-stat opportunities.
func paceFactor(pace float64) float64 {
	f := pace / LeagueAvgPace
	return boundFactor(f, minPaceFactor, maxPaceFactor)
}

// venueFactor reflects the home-court edge: players produce a little more at
// home and a little less on the road.
func venueFactor(home bool) float64 {
	if home {
		return homeFactor
	}
	return awayFactor
}

func boundFactor(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
