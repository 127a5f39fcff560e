package models

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParlayStatusIsTerminal(t *testing.T) {
	assert.False(t, ParlayStatusPending.IsTerminal())
	assert.True(t, ParlayStatusWon.IsTerminal())
	assert.True(t, ParlayStatusLost.IsTerminal())
	assert.True(t, ParlayStatusPartiallyWon.IsTerminal())
}

func TestNetProfit(t *testing.T) {
	stake := decimal.NewFromInt(10)
	payout := decimal.NewFromInt(35)
	settled := time.Now()

	won := &Parlay{Stake: &stake, Payout: &payout, Status: ParlayStatusWon, SettledAt: &settled}
	assert.True(t, won.NetProfit().Equal(decimal.NewFromInt(25)))

	lost := &Parlay{Stake: &stake, Status: ParlayStatusLost, SettledAt: &settled}
	assert.True(t, lost.NetProfit().Equal(decimal.NewFromInt(-10)))

	pending := &Parlay{Stake: &stake, Status: ParlayStatusPending}
	assert.True(t, pending.NetProfit().IsZero())

	noStake := &Parlay{Status: ParlayStatusWon, SettledAt: &settled}
	assert.True(t, noStake.NetProfit().IsZero())
}

func TestPropositionValidate(t *testing.T) {
	valid := Proposition{
		PlayerID:  uuid.New(),
		StatType:  StatPoints,
		Line:      25.5,
		Direction: DirectionOver,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Proposition)
	}{
		{"nan line", func(p *Proposition) { p.Line = math.NaN() }},
		{"inf line", func(p *Proposition) { p.Line = math.Inf(1) }},
		{"negative line", func(p *Proposition) { p.Line = -0.5 }},
		{"unknown stat", func(p *Proposition) { p.StatType = "vibes" }},
		{"unknown direction", func(p *Proposition) { p.Direction = "sideways" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidProposition)
		})
	}
}

func TestGameLogStatValue(t *testing.T) {
	g := &GameLog{Points: 25, Assists: 7, Rebounds: 9, ThreePointers: 4, Steals: 2, Blocks: 1}

	assert.Equal(t, 25.0, g.StatValue(StatPoints))
	assert.Equal(t, 7.0, g.StatValue(StatAssists))
	assert.Equal(t, 9.0, g.StatValue(StatRebounds))
	assert.Equal(t, 4.0, g.StatValue(StatThreePointers))
	assert.Equal(t, 32.0, g.StatValue(StatPointsAssists))
	assert.Equal(t, 41.0, g.StatValue(StatPointsReboundsAssists))
	assert.Equal(t, 0.0, g.StatValue("unknown"))
}

func TestQuotaExceededErrorMessage(t *testing.T) {
	err := &QuotaExceededError{IdentityKey: "anon:1", Limit: 5, ResetIn: 2 * time.Hour}
	assert.Contains(t, err.Error(), "daily limit of 5")
	assert.Contains(t, err.Error(), "2h0m0s")
}

func TestCooldownActiveErrorMessage(t *testing.T) {
	err := &CooldownActiveError{IdentityKey: "anon:1", RetryIn: 90 * time.Second}
	assert.Contains(t, err.Error(), "retry in 1m30s")
}
