// Package governor gates analysis requests per identity: a rolling-day quota
// anchored to the identity's first analysis of the window, plus a fixed
// cooldown between consecutive analyses. The governor is the only stateful,
// mutation-bearing component in the engine.
package governor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
)

// Defaults mirror the product limits: anonymous visitors get 5 analyses per
// rolling day, registered accounts 7, with 5 minutes between analyses.
const (
	DefaultAnonymousQuota  = 5
	DefaultRegisteredQuota = 7
	DefaultCooldown        = 5 * time.Minute
	DefaultWindow          = 24 * time.Hour
)

// Config holds governor limits.
type Config struct {
	AnonymousQuota  int
	RegisteredQuota int
	Cooldown        time.Duration
	Window          time.Duration
}

// DefaultConfig returns the documented default limits.
func DefaultConfig() Config {
	return Config{
		AnonymousQuota:  DefaultAnonymousQuota,
		RegisteredQuota: DefaultRegisteredQuota,
		Cooldown:        DefaultCooldown,
		Window:          DefaultWindow,
	}
}

// Store is the atomic per-identity read-modify-write interface the governor
// runs on. Update must serialize concurrent calls for the same key, must not
// serialize calls across different keys, and must discard the record's
// mutations when fn returns an error.
type Store interface {
	Update(ctx context.Context, key string, fn func(rec *models.UsageRecord) error) (*models.UsageRecord, error)
	Get(ctx context.Context, key string) (*models.UsageRecord, error)
}

// Authorization is granted for exactly one analysis.
type Authorization struct {
	IdentityKey   string    `json:"identity_key"`
	Limit         int       `json:"limit"`
	Remaining     int       `json:"remaining"`
	AnalysesToday int       `json:"analyses_today"`
	WindowResetAt time.Time `json:"window_reset_at"`
}

// UsageStatus reports an identity's current standing without consuming quota.
type UsageStatus struct {
	IdentityKey   string     `json:"identity_key"`
	Limit         int        `json:"limit"`
	Remaining     int        `json:"remaining"`
	AnalysesToday int        `json:"analyses_today"`
	LifetimeTotal int64      `json:"lifetime_total"`
	LastAnalysis  *time.Time `json:"last_analysis"`
	WindowResetAt *time.Time `json:"window_reset_at"`
}

// Governor enforces quota and cooldown ahead of every analysis.
type Governor struct {
	cfg    Config
	store  Store
	logger *logrus.Logger
}

// NewGovernor creates a governor, substituting defaults for zero limits.
func NewGovernor(cfg Config, store Store, logger *logrus.Logger) *Governor {
	if cfg.AnonymousQuota <= 0 {
		cfg.AnonymousQuota = DefaultAnonymousQuota
	}
	if cfg.RegisteredQuota <= 0 {
		cfg.RegisteredQuota = DefaultRegisteredQuota
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	return &Governor{cfg: cfg, store: store, logger: logger}
}

// Authorize checks quota then cooldown for the identity at the given instant
// and, when both pass, consumes one analysis slot atomically. Rejections
// mutate nothing. A consumed slot is never returned: an analysis abandoned by
// its caller after authorization still counts against the quota.
//
// The rolling window is anchored to the first analysis of the window, not to
// calendar midnight. When now is at or past windowStart+window the record
// resets before the checks run, and the reset clears the cooldown — the first
// analysis of a fresh window is never cooldown-rejected.
func (g *Governor) Authorize(ctx context.Context, identity models.Identity, now time.Time) (*Authorization, error) {
	quota := g.quotaFor(identity)

	rec, err := g.store.Update(ctx, identity.Key, func(rec *models.UsageRecord) error {
		rec.Registered = identity.Registered

		if rec.WindowStart.IsZero() || !now.Before(rec.WindowStart.Add(g.cfg.Window)) {
			rec.Count = 0
			rec.WindowStart = now
			rec.LastAnalysis = nil
		}

		if rec.Count >= quota {
			return &models.QuotaExceededError{
				IdentityKey: identity.Key,
				Limit:       quota,
				ResetIn:     rec.WindowStart.Add(g.cfg.Window).Sub(now),
			}
		}

		if rec.LastAnalysis != nil {
			if elapsed := now.Sub(*rec.LastAnalysis); elapsed < g.cfg.Cooldown {
				return &models.CooldownActiveError{
					IdentityKey: identity.Key,
					RetryIn:     g.cfg.Cooldown - elapsed,
				}
			}
		}

		last := now
		rec.Count++
		rec.LastAnalysis = &last
		rec.LifetimeTotal++
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.logger.WithFields(logrus.Fields{
		"identity":  identity.Key,
		"count":     rec.Count,
		"limit":     quota,
		"remaining": quota - rec.Count,
	}).Debug("Analysis authorized")

	return &Authorization{
		IdentityKey:   identity.Key,
		Limit:         quota,
		Remaining:     quota - rec.Count,
		AnalysesToday: rec.Count,
		WindowResetAt: rec.WindowStart.Add(g.cfg.Window),
	}, nil
}

// Usage reports the identity's standing at the given instant without
// consuming quota. A window that has elapsed is reported as fresh.
func (g *Governor) Usage(ctx context.Context, identity models.Identity, now time.Time) (*UsageStatus, error) {
	quota := g.quotaFor(identity)

	rec, err := g.store.Get(ctx, identity.Key)
	if err != nil {
		if err == models.ErrNotFound {
			return &UsageStatus{IdentityKey: identity.Key, Limit: quota, Remaining: quota}, nil
		}
		return nil, err
	}

	status := &UsageStatus{
		IdentityKey:   identity.Key,
		Limit:         quota,
		LifetimeTotal: rec.LifetimeTotal,
		LastAnalysis:  rec.LastAnalysis,
	}
	if rec.WindowStart.IsZero() || !now.Before(rec.WindowStart.Add(g.cfg.Window)) {
		status.Remaining = quota
		return status, nil
	}
	reset := rec.WindowStart.Add(g.cfg.Window)
	status.AnalysesToday = rec.Count
	status.Remaining = quota - rec.Count
	if status.Remaining < 0 {
		status.Remaining = 0
	}
	status.WindowResetAt = &reset
	return status, nil
}

func (g *Governor) quotaFor(identity models.Identity) int {
	if identity.Registered {
		return g.cfg.RegisteredQuota
	}
	return g.cfg.AnonymousQuota
}
