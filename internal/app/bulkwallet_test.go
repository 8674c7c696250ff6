package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"whalesx/clients/gmgn"
	"whalesx/config"
)

// fakeGmgnServer serves canned wallet activity, failing for wallets listed in
// failWallets.
func fakeGmgnServer(t *testing.T, failWallets map[string]bool) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/defi/quotation/v1/wallet_activity/sol" {
			http.NotFound(w, r)
			return
		}

		wallet := r.URL.Query().Get("wallet")
		if failWallets[wallet] {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"data":{"activities":[
			{"token_address":"tok-%s","event_type":"buy","cost_usd":100,"token_amount":1000,"token":{"price":0.2},"timestamp":950},
			{"token_address":"tok-%s","event_type":"sell","cost_usd":150,"token_amount":500,"token":{"price":0.25},"timestamp":960}
		]}}`, wallet, wallet)
	}))
}

func testAnalyzer(t *testing.T, serverURL string) *BulkWalletAnalyzer {
	t.Helper()

	cfg := config.Defaults()
	cfg.Gmgn.BaseURL = serverURL
	cfg.Gmgn.RateLimit = 1000
	cfg.Gmgn.RateBurst = 1000

	a := NewBulkWalletAnalyzer(nil, gmgn.NewClient(nil, cfg), cfg)
	// Fix the clock so the canned timestamps land inside the window.
	a.now = func() time.Time { return time.Unix(1000, 0) }
	return a
}

func TestAnalyzeWallets_OrderAndMetrics(t *testing.T) {
	server := fakeGmgnServer(t, nil)
	defer server.Close()

	a := testAnalyzer(t, server.URL)
	results := a.AnalyzeWallets(context.Background(), []string{"w1", "w2", "w3"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"w1", "w2", "w3"} {
		if results[i].Wallet != want {
			t.Errorf("result %d wallet = %q, want %q", i, results[i].Wallet, want)
		}
		if results[i].Failed() {
			t.Errorf("result %d unexpectedly failed: %q", i, results[i].Err)
		}
	}

	// Each wallet: bought 100, sold 150, one winning token over 2 trades.
	r := results[0]
	if r.RealizedPnL != 50 {
		t.Errorf("RealizedPnL = %f, want 50", r.RealizedPnL)
	}
	if r.WinRate != 50 {
		t.Errorf("WinRate = %f, want 50", r.WinRate)
	}
	// Balance 500 at first-seen price 0.2: held 100, unrealized 0.
	if r.Liquidity != 100 {
		t.Errorf("Liquidity = %f, want 100", r.Liquidity)
	}
	if r.UnrealizedPnL != 0 {
		t.Errorf("UnrealizedPnL = %f, want 0", r.UnrealizedPnL)
	}
}

func TestAnalyzeWallets_FailureIsolation(t *testing.T) {
	server := fakeGmgnServer(t, map[string]bool{"w2": true})
	defer server.Close()

	a := testAnalyzer(t, server.URL)
	results := a.AnalyzeWallets(context.Background(), []string{"w1", "w2", "w3"})

	if results[0].Failed() || results[2].Failed() {
		t.Errorf("healthy wallets affected by failing one: %+v", results)
	}
	if !results[1].Failed() {
		t.Fatal("expected w2 to carry an error result")
	}
	if results[1].Wallet != "w2" {
		t.Errorf("error result wallet = %q, want w2", results[1].Wallet)
	}
}

func TestAnalyzeWallets_Idempotent(t *testing.T) {
	server := fakeGmgnServer(t, nil)
	defer server.Close()

	a := testAnalyzer(t, server.URL)
	wallets := []string{"w1", "w2"}

	first := a.AnalyzeWallets(context.Background(), wallets)
	for i := 0; i < 5; i++ {
		again := a.AnalyzeWallets(context.Background(), wallets)
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d wallet %d differs: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestAnalyzeWallets_WindowExcludesOldTrades(t *testing.T) {
	server := fakeGmgnServer(t, nil)
	defer server.Close()

	a := testAnalyzer(t, server.URL)
	// Move the clock far forward: every canned trade falls out of the window.
	a.now = func() time.Time { return time.Unix(950, 0).Add(a.window).Add(time.Hour) }

	results := a.AnalyzeWallets(context.Background(), []string{"w1"})
	r := results[0]
	if r.Failed() {
		t.Fatalf("unexpected error: %q", r.Err)
	}
	if r.RealizedPnL != 0 || r.WinRate != 0 || r.Liquidity != 0 {
		t.Errorf("expected all-zero metrics outside window, got %+v", r)
	}
}

func TestAnalyzeWallets_Empty(t *testing.T) {
	server := fakeGmgnServer(t, nil)
	defer server.Close()

	a := testAnalyzer(t, server.URL)
	if results := a.AnalyzeWallets(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected no results, got %+v", results)
	}
}

func TestSanitizeError(t *testing.T) {
	err := fmt.Errorf("line one\nline two\r\nline three")
	got := sanitizeError(err)
	if got != "line one line two  line three" {
		t.Errorf("sanitizeError = %q", got)
	}

	if sanitizeError(nil) != "" {
		t.Error("expected empty string for nil error")
	}
}
