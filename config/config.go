package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Environment
	IsProd bool `json:"is_prod"`

	// Telegram
	Telegram TelegramConfig `json:"telegram"`

	// Discord (optional report mirror)
	Discord DiscordConfig `json:"discord"`

	// GMGN data source
	Gmgn GmgnConfig `json:"gmgn"`

	// Wallet performance analysis
	Analyzer AnalyzerConfig `json:"analyzer"`

	// Token-level tasks (bundles, holders, traders, early buyers)
	Tasks TasksConfig `json:"tasks"`

	// Redis user registry - excluded from settings (env var only)
	Redis RedisConfig `json:"-"`

	// Per-chat session state
	Session SessionConfig `json:"session"`
}

// TelegramConfig holds Telegram-related configuration.
type TelegramConfig struct {
	BotToken    string        `json:"-"` // Excluded - env var only
	PollTimeout time.Duration `json:"poll_timeout"`
	BotUsername string        `json:"bot_username"` // used for referral deep links
}

// DiscordConfig holds Discord-related configuration.
type DiscordConfig struct {
	BotToken      string `json:"-"` // Excluded - env var only
	ProdChannelID string `json:"prod_channel_id"`
	BetaChannelID string `json:"beta_channel_id"`
}

// GmgnConfig holds GMGN API configuration.
type GmgnConfig struct {
	BaseURL        string        `json:"base_url"`
	Referer        string        `json:"referer"`
	RequestTimeout time.Duration `json:"request_timeout"`
	RateLimit      float64       `json:"rate_limit"` // requests per second
	RateBurst      int           `json:"rate_burst"`
}

// AnalyzerConfig holds bulk wallet analysis configuration.
type AnalyzerConfig struct {
	Window           time.Duration `json:"window"`            // trailing window for trade eligibility
	RiskFreeRate     float64       `json:"risk_free_rate"`    // percentage points, same scale as token returns
	ChunkLimit       int           `json:"chunk_limit"`       // max characters per outbound message
	OnlyWinners      bool          `json:"only_winners"`      // drop zero win-rate wallets from the report
	FetchConcurrency int           `json:"fetch_concurrency"` // parallel wallet history fetches
}

// TasksConfig holds token task configuration.
type TasksConfig struct {
	BundleCount      int `json:"bundle_count"`
	EarlyBuyersCount int `json:"early_buyers_count"`
	TopHoldersCount  int `json:"top_holders_count"`
	TopTradersCount  int `json:"top_traders_count"`
	TradesFetchLimit int `json:"trades_fetch_limit"`
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string `json:"-"`
	Password string `json:"-"`
	DB       int    `json:"-"`
}

// SessionConfig holds per-chat session state configuration.
type SessionConfig struct {
	TTL             time.Duration `json:"ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// Defaults returns a config with hardcoded default values.
func Defaults() *Config {
	return &Config{
		IsProd: false,
		Telegram: TelegramConfig{
			PollTimeout: 30 * time.Second,
			BotUsername: "WhalesX_Tracker_bot",
		},
		Discord: DiscordConfig{},
		Gmgn: GmgnConfig{
			BaseURL:        "https://gmgn.ai",
			Referer:        "https://gmgn.ai/?chain=sol",
			RequestTimeout: 30 * time.Second,
			RateLimit:      5.0,
			RateBurst:      10,
		},
		Analyzer: AnalyzerConfig{
			Window:           31 * 24 * time.Hour,
			RiskFreeRate:     2.0,
			ChunkLimit:       4096,
			OnlyWinners:      false,
			FetchConcurrency: 4,
		},
		Tasks: TasksConfig{
			BundleCount:      20,
			EarlyBuyersCount: 10,
			TopHoldersCount:  10,
			TopTradersCount:  20,
			TradesFetchLimit: 50,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Session: SessionConfig{
			TTL:             1 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
	}
}

// Load loads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		IsProd: envBool("STAGE", "PROD"),

		Telegram: TelegramConfig{
			BotToken:    envString("TELEGRAM_BOT_KEY", ""),
			PollTimeout: envDuration("TELEGRAM_POLL_TIMEOUT", 30*time.Second),
			BotUsername: envString("TELEGRAM_BOT_USERNAME", "WhalesX_Tracker_bot"),
		},

		Discord: DiscordConfig{
			BotToken:      envString("DISCORD_BOT_TOKEN", ""),
			ProdChannelID: envString("DISCORD_PROD_CHANNEL_ID", ""),
			BetaChannelID: envString("DISCORD_BETA_CHANNEL_ID", ""),
		},

		Gmgn: GmgnConfig{
			BaseURL:        envString("GMGN_BASE_URL", "https://gmgn.ai"),
			Referer:        envString("GMGN_REFERER", "https://gmgn.ai/?chain=sol"),
			RequestTimeout: envDuration("GMGN_REQUEST_TIMEOUT", 30*time.Second),
			RateLimit:      envFloat("GMGN_RATE_LIMIT", 5.0),
			RateBurst:      envInt("GMGN_RATE_BURST", 10),
		},

		Analyzer: AnalyzerConfig{
			Window:           envDuration("ANALYZER_WINDOW", 31*24*time.Hour),
			RiskFreeRate:     envFloat("ANALYZER_RISK_FREE_RATE", 2.0),
			ChunkLimit:       envInt("ANALYZER_CHUNK_LIMIT", 4096),
			OnlyWinners:      envBoolDefault("ANALYZER_ONLY_WINNERS", false),
			FetchConcurrency: envInt("ANALYZER_FETCH_CONCURRENCY", 4),
		},

		Tasks: TasksConfig{
			BundleCount:      envInt("TASKS_BUNDLE_COUNT", 20),
			EarlyBuyersCount: envInt("TASKS_EARLY_BUYERS_COUNT", 10),
			TopHoldersCount:  envInt("TASKS_TOP_HOLDERS_COUNT", 10),
			TopTradersCount:  envInt("TASKS_TOP_TRADERS_COUNT", 20),
			TradesFetchLimit: envInt("TASKS_TRADES_FETCH_LIMIT", 50),
		},

		Redis: RedisConfig{
			Addr:     envString("REDIS_ADDR", "localhost:6379"),
			Password: envString("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),
		},

		Session: SessionConfig{
			TTL:             envDuration("SESSION_TTL", 1*time.Hour),
			CleanupInterval: envDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
		},
	}
}

// Helper functions for parsing environment variables

func envString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func envBool(key, trueValue string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), trueValue)
}

func envBoolDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "1") || strings.EqualFold(v, "yes")
}
