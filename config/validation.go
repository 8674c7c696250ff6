package config

import (
	"time"
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of config validation.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validate checks the config for invalid values.
func (c *Config) Validate() ValidationResult {
	var errors []ValidationError

	errors = append(errors, validateGmgn(&c.Gmgn)...)
	errors = append(errors, validateAnalyzer(&c.Analyzer)...)
	errors = append(errors, validateTasks(&c.Tasks)...)
	errors = append(errors, validateSession(&c.Session)...)

	return ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func validateGmgn(g *GmgnConfig) []ValidationError {
	var errors []ValidationError

	if g.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "gmgn.base_url",
			Message: "must not be empty",
		})
	}

	if g.RequestTimeout < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "gmgn.request_timeout",
			Message: "must be at least 1 second",
		})
	}

	if g.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "gmgn.rate_limit",
			Message: "must be positive",
		})
	}

	if g.RateBurst < 1 {
		errors = append(errors, ValidationError{
			Field:   "gmgn.rate_burst",
			Message: "must be at least 1",
		})
	}

	return errors
}

func validateAnalyzer(a *AnalyzerConfig) []ValidationError {
	var errors []ValidationError

	if a.Window < 1*time.Hour {
		errors = append(errors, ValidationError{
			Field:   "analyzer.window",
			Message: "must be at least 1 hour",
		})
	}

	if a.ChunkLimit < 1 {
		errors = append(errors, ValidationError{
			Field:   "analyzer.chunk_limit",
			Message: "must be at least 1",
		})
	}

	if a.FetchConcurrency < 1 {
		errors = append(errors, ValidationError{
			Field:   "analyzer.fetch_concurrency",
			Message: "must be at least 1",
		})
	}

	return errors
}

func validateTasks(t *TasksConfig) []ValidationError {
	var errors []ValidationError

	if t.BundleCount < 1 {
		errors = append(errors, ValidationError{
			Field:   "tasks.bundle_count",
			Message: "must be at least 1",
		})
	}

	if t.EarlyBuyersCount < 1 {
		errors = append(errors, ValidationError{
			Field:   "tasks.early_buyers_count",
			Message: "must be at least 1",
		})
	}

	if t.TopHoldersCount < 1 {
		errors = append(errors, ValidationError{
			Field:   "tasks.top_holders_count",
			Message: "must be at least 1",
		})
	}

	if t.TopTradersCount < 1 {
		errors = append(errors, ValidationError{
			Field:   "tasks.top_traders_count",
			Message: "must be at least 1",
		})
	}

	if t.TradesFetchLimit < t.BundleCount {
		errors = append(errors, ValidationError{
			Field:   "tasks.trades_fetch_limit",
			Message: "must be at least bundle_count",
		})
	}

	return errors
}

func validateSession(s *SessionConfig) []ValidationError {
	var errors []ValidationError

	if s.TTL < 1*time.Minute {
		errors = append(errors, ValidationError{
			Field:   "session.ttl",
			Message: "must be at least 1 minute",
		})
	}

	if s.CleanupInterval < 1*time.Minute {
		errors = append(errors, ValidationError{
			Field:   "session.cleanup_interval",
			Message: "must be at least 1 minute",
		})
	}

	return errors
}
