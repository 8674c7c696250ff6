package app

import (
	"testing"
	"whalesx/config"
)

func TestEmailRegex(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"trader@example.com", true},
		{"a.b+c@sub.domain.io", true},
		{"no-at-sign", false},
		{"@missing.local", false},
		{"user@", false},
		{"user@domain", false},
		{"5yKYoT3eYSfZyYy9LhhXQV5oLS8GvnsVW7cUBUW1P2t4", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := emailRe.MatchString(tt.input); got != tt.valid {
				t.Errorf("emailRe.MatchString(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestTokenAddressRegex(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"5yKYoT3eYSfZyYy9LhhXQV5oLS8GvnsVW7cUBUW1P2t4", true},
		{"So11111111111111111111111111111111111111112", true},
		{"tooshort", false},
		{"contains0andOandIandl11111111111111111111", false}, // 0, O, I are not base58
		{"/start", false},
		{"trader@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := tokenAddressRe.MatchString(tt.input); got != tt.valid {
				t.Errorf("tokenAddressRe.MatchString(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestReferralLink(t *testing.T) {
	cfg := config.Defaults()
	cfg.Telegram.BotUsername = "WhalesX_Tracker_bot"

	r := &Runner{cfg: cfg}
	want := "https://t.me/WhalesX_Tracker_bot?start=12345"
	if got := r.referralLink(12345); got != want {
		t.Errorf("referralLink = %q, want %q", got, want)
	}
}
