package models

import (
	"errors"
	"fmt"
	"time"
)

// Custom errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key violation")
	ErrInvalidID          = errors.New("invalid ID format")
	ErrInsufficientData   = errors.New("no historical observations available")
	ErrInvalidProposition = errors.New("invalid proposition")
	ErrEmptyParlay        = errors.New("parlay has no legs")
	ErrTooManyLegs        = errors.New("parlay exceeds maximum number of legs")
	ErrAlreadySettled     = errors.New("parlay already settled")
)

// QuotaExceededError is returned when an identity has used up its rolling-day
// quota. ResetIn tells the caller how long until the window resets.
type QuotaExceededError struct {
	IdentityKey string
	Limit       int
	ResetIn     time.Duration
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily limit of %d analyses reached, resets in %s", e.Limit, e.ResetIn.Round(time.Second))
}

// CooldownActiveError is returned when an identity analyzes again before the
// cooldown between analyses has elapsed.
type CooldownActiveError struct {
	IdentityKey string
	RetryIn     time.Duration
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("cooldown active, retry in %s", e.RetryIn.Round(time.Second))
}
