// Package config provides configuration management for the Courtside analysis engine.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField runs checks that span multiple fields
func validateCrossField(cfg *Config) error {
	if cfg.Model.ProbabilityFloor >= cfg.Model.ProbabilityCeiling {
		return fmt.Errorf("model.probability_floor (%.3f) must be below model.probability_ceiling (%.3f)",
			cfg.Model.ProbabilityFloor, cfg.Model.ProbabilityCeiling)
	}
	if cfg.Governor.RegisteredQuota < cfg.Governor.AnonymousQuota {
		return fmt.Errorf("governor.registered_quota (%d) must be at least governor.anonymous_quota (%d)",
			cfg.Governor.RegisteredQuota, cfg.Governor.AnonymousQuota)
	}
	if cfg.Governor.CooldownSeconds >= cfg.Governor.WindowHours*3600 {
		return fmt.Errorf("governor.cooldown_seconds (%d) must be shorter than the rolling window",
			cfg.Governor.CooldownSeconds)
	}
	if cfg.Model.RecentWindow > cfg.Model.SeasonGames {
		return fmt.Errorf("model.recent_window (%d) cannot exceed model.season_games (%d)",
			cfg.Model.RecentWindow, cfg.Model.SeasonGames)
	}
	return nil
}

// formatValidationErrors converts validator errors into a readable message
func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(messages, "; "))
}
