package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

type fakeTeamStatsRepo struct {
	stats map[string]*models.TeamStats
	calls int
}

func (f *fakeTeamStatsRepo) Upsert(ctx context.Context, stats *models.TeamStats) error {
	f.stats[stats.Abbreviation] = stats
	return nil
}

func (f *fakeTeamStatsRepo) GetByAbbreviation(ctx context.Context, abbreviation string) (*models.TeamStats, error) {
	f.calls++
	ts, ok := f.stats[abbreviation]
	if !ok {
		return nil, models.ErrNotFound
	}
	return ts, nil
}

func (f *fakeTeamStatsRepo) List(ctx context.Context) ([]*models.TeamStats, error) {
	out := make([]*models.TeamStats, 0, len(f.stats))
	for _, ts := range f.stats {
		out = append(out, ts)
	}
	return out, nil
}

func TestCachedTeamStatsServesFromCache(t *testing.T) {
	repo := &fakeTeamStatsRepo{stats: map[string]*models.TeamStats{
		"BOS": {Abbreviation: "BOS", DefensiveRating: 108.0, Pace: 97.0},
	}}
	cached := NewCachedTeamStats(repo, time.Minute)

	for i := 0; i < 5; i++ {
		ts, err := cached.TeamStats(context.Background(), "BOS")
		require.NoError(t, err)
		assert.Equal(t, 108.0, ts.DefensiveRating)
	}

	assert.Equal(t, 1, repo.calls)
}

func TestCachedTeamStatsMissPassesThrough(t *testing.T) {
	repo := &fakeTeamStatsRepo{stats: map[string]*models.TeamStats{}}
	cached := NewCachedTeamStats(repo, time.Minute)

	_, err := cached.TeamStats(context.Background(), "???")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Errors are not cached.
	_, err = cached.TeamStats(context.Background(), "???")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 2, repo.calls)
}

func TestCachedTeamStatsInvalidate(t *testing.T) {
	repo := &fakeTeamStatsRepo{stats: map[string]*models.TeamStats{
		"BOS": {Abbreviation: "BOS", DefensiveRating: 108.0},
	}}
	cached := NewCachedTeamStats(repo, time.Minute)

	_, err := cached.TeamStats(context.Background(), "BOS")
	require.NoError(t, err)

	repo.stats["BOS"] = &models.TeamStats{Abbreviation: "BOS", DefensiveRating: 111.0}
	cached.Invalidate("BOS")

	ts, err := cached.TeamStats(context.Background(), "BOS")
	require.NoError(t, err)
	assert.Equal(t, 111.0, ts.DefensiveRating)
	assert.Equal(t, 2, repo.calls)
}
