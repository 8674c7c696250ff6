package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.IsProd {
		t.Error("expected non-prod by default")
	}
	if cfg.Gmgn.BaseURL != "https://gmgn.ai" {
		t.Errorf("Gmgn.BaseURL = %q", cfg.Gmgn.BaseURL)
	}
	if cfg.Analyzer.Window != 31*24*time.Hour {
		t.Errorf("Analyzer.Window = %v, want 31 days", cfg.Analyzer.Window)
	}
	if cfg.Analyzer.RiskFreeRate != 2.0 {
		t.Errorf("Analyzer.RiskFreeRate = %f, want 2.0", cfg.Analyzer.RiskFreeRate)
	}
	if cfg.Analyzer.ChunkLimit != 4096 {
		t.Errorf("Analyzer.ChunkLimit = %d, want 4096", cfg.Analyzer.ChunkLimit)
	}
	if cfg.Analyzer.OnlyWinners {
		t.Error("expected OnlyWinners off by default")
	}
	if cfg.Tasks.BundleCount != 20 || cfg.Tasks.TopHoldersCount != 10 || cfg.Tasks.TopTradersCount != 20 {
		t.Errorf("unexpected task counts: %+v", cfg.Tasks)
	}
}

func TestDefaults_Valid(t *testing.T) {
	result := Defaults().Validate()
	if !result.Valid {
		t.Errorf("defaults failed validation: %+v", result.Errors)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STAGE", "PROD")
	t.Setenv("TELEGRAM_BOT_KEY", "123:abc")
	t.Setenv("ANALYZER_WINDOW", "240h")
	t.Setenv("ANALYZER_ONLY_WINNERS", "true")
	t.Setenv("ANALYZER_CHUNK_LIMIT", "2000")
	t.Setenv("TASKS_BUNDLE_COUNT", "5")
	t.Setenv("GMGN_RATE_LIMIT", "2.5")

	cfg := Load()

	if !cfg.IsProd {
		t.Error("expected prod with STAGE=PROD")
	}
	if cfg.Telegram.BotToken != "123:abc" {
		t.Errorf("BotToken = %q", cfg.Telegram.BotToken)
	}
	if cfg.Analyzer.Window != 240*time.Hour {
		t.Errorf("Window = %v, want 240h", cfg.Analyzer.Window)
	}
	if !cfg.Analyzer.OnlyWinners {
		t.Error("expected OnlyWinners enabled")
	}
	if cfg.Analyzer.ChunkLimit != 2000 {
		t.Errorf("ChunkLimit = %d, want 2000", cfg.Analyzer.ChunkLimit)
	}
	if cfg.Tasks.BundleCount != 5 {
		t.Errorf("BundleCount = %d, want 5", cfg.Tasks.BundleCount)
	}
	if cfg.Gmgn.RateLimit != 2.5 {
		t.Errorf("RateLimit = %f, want 2.5", cfg.Gmgn.RateLimit)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("ANALYZER_WINDOW", "not-a-duration")
	t.Setenv("ANALYZER_CHUNK_LIMIT", "also-not-a-number")

	cfg := Load()
	if cfg.Analyzer.Window != 31*24*time.Hour {
		t.Errorf("Window = %v, want default on bad value", cfg.Analyzer.Window)
	}
	if cfg.Analyzer.ChunkLimit != 4096 {
		t.Errorf("ChunkLimit = %d, want default on bad value", cfg.Analyzer.ChunkLimit)
	}
}

func TestValidate_Errors(t *testing.T) {
	cfg := Defaults()
	cfg.Gmgn.BaseURL = ""
	cfg.Analyzer.Window = time.Minute
	cfg.Analyzer.ChunkLimit = 0
	cfg.Tasks.TradesFetchLimit = 1 // below bundle_count

	result := cfg.Validate()
	if result.Valid {
		t.Fatal("expected validation failure")
	}

	fields := make(map[string]bool)
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	for _, want := range []string{
		"gmgn.base_url",
		"analyzer.window",
		"analyzer.chunk_limit",
		"tasks.trades_fetch_limit",
	} {
		if !fields[want] {
			t.Errorf("missing validation error for %s: %+v", want, result.Errors)
		}
	}
}
