// Package stats computes observation summaries the probability model consumes:
// central tendency, dispersion, and a short-window trend over a player's
// per-game stat values.
package stats

import (
	"math"

	"github.com/yourusername/courtside/internal/models"
)

// Summary describes a non-empty observation set. Trend is the difference
// between the recent-window mean and the full mean, positive when the player
// is running hot.
type Summary struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	RecentMean float64 `json:"recent_mean"`
	Trend      float64 `json:"trend"`
	SampleSize int     `json:"sample_size"`
	WindowSize int     `json:"window_size"`
}

// Summarize computes the summary for an ordered observation set. Values must
// be ordered by game date ascending; the recent window covers the last
// `window` values, clipped to the available length. An empty set is an error,
// not a degenerate summary.
//
// Standard deviation is the sample standard deviation (Bessel's correction);
// for a single observation it is defined as 0, since the probability model
// floors dispersion separately.
func Summarize(values []float64, window int) (Summary, error) {
	n := len(values)
	if n == 0 {
		return Summary{}, models.ErrInsufficientData
	}
	if window <= 0 || window > n {
		window = n
	}

	mean := meanOf(values)
	recentMean := meanOf(values[n-window:])

	std := 0.0
	if n > 1 {
		variance := 0.0
		for _, v := range values {
			diff := v - mean
			variance += diff * diff
		}
		variance /= float64(n - 1)
		std = math.Sqrt(variance)
	}

	return Summary{
		Mean:       mean,
		StdDev:     std,
		RecentMean: recentMean,
		Trend:      recentMean - mean,
		SampleSize: n,
		WindowSize: window,
	}, nil
}

// Observations extracts the ordered stat values from a player's game logs.
// Logs must already be ordered by game date ascending.
func Observations(logs []*models.GameLog, stat models.StatType) []float64 {
	values := make([]float64, 0, len(logs))
	for _, g := range logs {
		values = append(values, g.StatValue(stat))
	}
	return values
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
