// Package config provides configuration management for the Courtside analysis engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Governor   GovernorConfig   `mapstructure:"governor" validate:"required"`
	Parlay     ParlayConfig     `mapstructure:"parlay" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	API        APIConfig        `mapstructure:"api" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ModelConfig represents probability model constants
type ModelConfig struct {
	TrendWeight        float64 `mapstructure:"trend_weight" validate:"gte=0,lte=1"`
	StdFloor           float64 `mapstructure:"std_floor" validate:"required,gt=0"`
	MatchupCapFraction float64 `mapstructure:"matchup_cap_fraction" validate:"required,gt=0,lte=0.5"`
	ProbabilityFloor   float64 `mapstructure:"probability_floor" validate:"required,gt=0,lt=0.5"`
	ProbabilityCeiling float64 `mapstructure:"probability_ceiling" validate:"required,gt=0.5,lt=1"`
	RecentWindow       int     `mapstructure:"recent_window" validate:"required,gt=0"`
	SeasonGames        int     `mapstructure:"season_games" validate:"required,gt=0"`
}

// GovernorConfig represents usage quota and cooldown limits
type GovernorConfig struct {
	AnonymousQuota  int `mapstructure:"anonymous_quota" validate:"required,gt=0"`
	RegisteredQuota int `mapstructure:"registered_quota" validate:"required,gt=0"`
	CooldownSeconds int `mapstructure:"cooldown_seconds" validate:"required,gt=0"`
	WindowHours     int `mapstructure:"window_hours" validate:"required,gt=0"`
}

// Cooldown returns the cooldown as a duration
func (g GovernorConfig) CooldownDuration() time.Duration {
	return time.Duration(g.CooldownSeconds) * time.Second
}

// WindowDuration returns the rolling window as a duration
func (g GovernorConfig) WindowDuration() time.Duration {
	return time.Duration(g.WindowHours) * time.Hour
}

// ParlayConfig represents parlay combiner limits
type ParlayConfig struct {
	MaxLegs int `mapstructure:"max_legs" validate:"required,gt=0"`
}

// DataSourceConfig represents the game-log and team-stats data source
type DataSourceConfig struct {
	BaseURL             string `mapstructure:"base_url" validate:"required,url"`
	APIKey              string `mapstructure:"api_key"`
	Season              int    `mapstructure:"season" validate:"required,gt=2000"`
	RequestsPerMinute   int    `mapstructure:"requests_per_minute" validate:"required,gt=0"`
	RetryMax            int    `mapstructure:"retry_max" validate:"gte=0"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	TeamStatsTTLMinutes int    `mapstructure:"team_stats_ttl_minutes" validate:"required,gt=0"`
}

// APIConfig represents the public analysis API server
type APIConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents cron schedules for background jobs
type SchedulerConfig struct {
	GameLogSync     string `mapstructure:"game_log_sync" validate:"required"`
	SettlementSweep string `mapstructure:"settlement_sweep" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
