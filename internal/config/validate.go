package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if err := c.Quiz.validate(); err != nil {
		return fmt.Errorf("quiz: %w", err)
	}

	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Channel) == "" {
		return fmt.Errorf("redis.channel is required when redis is enabled")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerMinute <= 0 {
			return fmt.Errorf("rate_limit.requests_per_minute must be > 0 (got %d)", c.RateLimit.RequestsPerMinute)
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate_limit.burst must be > 0 (got %d)", c.RateLimit.Burst)
		}
	}

	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error (got %q)", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	return nil
}

func (q *QuizConfig) validate() error {
	if q.Distractors < 1 {
		return fmt.Errorf("distractors must be >= 1 (got %d)", q.Distractors)
	}
	if !q.Mode().IsValid() {
		return fmt.Errorf("default_mode must be random, sequential or timed (got %q)", q.DefaultMode)
	}
	if q.MaxTimePerCard < 0 {
		return fmt.Errorf("max_time_per_card must be >= 0 (got %d)", q.MaxTimePerCard)
	}
	if q.DefaultListLimit < 1 || q.DefaultListLimit > 100 {
		return fmt.Errorf("default_list_limit must be in [1, 100] (got %d)", q.DefaultListLimit)
	}
	if q.DueReminderMin < 1 {
		return fmt.Errorf("due_reminder_min must be >= 1 (got %d)", q.DueReminderMin)
	}
	return nil
}
