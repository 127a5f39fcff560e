package datasource

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// CachedTeamStats serves team statistics from an in-memory TTL cache backed
// by the team stats repository. Team ratings change once a day at most, so
// the analysis path should not hit the database per leg. Satisfies
// matchup.TeamStatsSource.
type CachedTeamStats struct {
	repo  repository.TeamStatsRepository
	cache *cache.Cache
}

// NewCachedTeamStats creates a cached team-stats source with the given TTL
func NewCachedTeamStats(repo repository.TeamStatsRepository, ttl time.Duration) *CachedTeamStats {
	return &CachedTeamStats{
		repo:  repo,
		cache: cache.New(ttl, ttl*2),
	}
}

// TeamStats returns the team's current statistics, from cache when fresh
func (c *CachedTeamStats) TeamStats(ctx context.Context, abbreviation string) (*models.TeamStats, error) {
	if cached, found := c.cache.Get(abbreviation); found {
		if ts, ok := cached.(*models.TeamStats); ok {
			return ts, nil
		}
	}

	ts, err := c.repo.GetByAbbreviation(ctx, abbreviation)
	if err != nil {
		return nil, err
	}

	c.cache.Set(abbreviation, ts, cache.DefaultExpiration)
	return ts, nil
}

// Invalidate drops a team's cached entry, forcing a reload on next use
func (c *CachedTeamStats) Invalidate(abbreviation string) {
	c.cache.Delete(abbreviation)
}

// Flush drops all cached entries
func (c *CachedTeamStats) Flush() {
	c.cache.Flush()
}
