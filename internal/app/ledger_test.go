package app

import (
	"testing"
	"time"
)

func TestFilterWindow_Boundary(t *testing.T) {
	cutoff := time.Unix(1000, 0)

	events := []TradeEvent{
		{TokenAddress: "a", Timestamp: 999},  // just before cutoff
		{TokenAddress: "b", Timestamp: 1000}, // exactly at cutoff, included
		{TokenAddress: "c", Timestamp: 1001},
		{TokenAddress: "d", Timestamp: 0}, // missing timestamp, dropped
	}

	filtered := FilterWindow(events, cutoff)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 events, got %d", len(filtered))
	}
	if filtered[0].TokenAddress != "b" || filtered[1].TokenAddress != "c" {
		t.Errorf("unexpected events kept: %+v", filtered)
	}
}

func TestFilterWindow_Empty(t *testing.T) {
	if got := FilterWindow(nil, time.Unix(0, 0)); len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestBuildLedgers_Accumulation(t *testing.T) {
	events := []TradeEvent{
		{TokenAddress: "tok", Type: EventBuy, CostUSD: 100, TokenAmount: 1000, MarkPrice: 0.1, Timestamp: 1},
		{TokenAddress: "tok", Type: EventBuy, CostUSD: 50, TokenAmount: 400, MarkPrice: 0.2, Timestamp: 2},
		{TokenAddress: "tok", Type: EventSell, CostUSD: 120, TokenAmount: 600, MarkPrice: 0.3, Timestamp: 3},
	}

	ledgers := BuildLedgers(events)
	ledger, ok := ledgers["tok"]
	if !ok {
		t.Fatal("expected ledger for tok")
	}

	if ledger.TotalBoughtUSD != 150 {
		t.Errorf("TotalBoughtUSD = %f, want 150", ledger.TotalBoughtUSD)
	}
	if ledger.TotalSoldUSD != 120 {
		t.Errorf("TotalSoldUSD = %f, want 120", ledger.TotalSoldUSD)
	}
	if ledger.NetTokenBalance != 800 {
		t.Errorf("NetTokenBalance = %f, want 800", ledger.NetTokenBalance)
	}
	if ledger.RealizedPnL() != -30 {
		t.Errorf("RealizedPnL = %f, want -30", ledger.RealizedPnL())
	}
}

func TestBuildLedgers_FirstSeenMarkPrice(t *testing.T) {
	events := []TradeEvent{
		{TokenAddress: "tok", Type: EventBuy, MarkPrice: 0.5, Timestamp: 1},
		{TokenAddress: "tok", Type: EventBuy, MarkPrice: 2.0, Timestamp: 2},
	}

	ledgers := BuildLedgers(events)
	if ledgers["tok"].MarkPrice != 0.5 {
		t.Errorf("MarkPrice = %f, want first seen 0.5", ledgers["tok"].MarkPrice)
	}
}

func TestBuildLedgers_ZeroMarkPriceBackfilled(t *testing.T) {
	// A zero first price is treated as absent; the next usable one sticks.
	events := []TradeEvent{
		{TokenAddress: "tok", Type: EventBuy, MarkPrice: 0, Timestamp: 1},
		{TokenAddress: "tok", Type: EventSell, MarkPrice: 0.7, Timestamp: 2},
	}

	ledgers := BuildLedgers(events)
	if ledgers["tok"].MarkPrice != 0.7 {
		t.Errorf("MarkPrice = %f, want 0.7", ledgers["tok"].MarkPrice)
	}
}

func TestBuildLedgers_NegativeBalanceClamped(t *testing.T) {
	// Sells exceeding tracked buys mean the position predates the window.
	events := []TradeEvent{
		{TokenAddress: "tok", Type: EventBuy, CostUSD: 10, TokenAmount: 100, Timestamp: 1},
		{TokenAddress: "tok", Type: EventSell, CostUSD: 60, TokenAmount: 500, Timestamp: 2},
	}

	ledgers := BuildLedgers(events)
	if ledgers["tok"].NetTokenBalance != 0 {
		t.Errorf("NetTokenBalance = %f, want clamped 0", ledgers["tok"].NetTokenBalance)
	}
	// Realized totals are untouched by the clamp.
	if ledgers["tok"].RealizedPnL() != 50 {
		t.Errorf("RealizedPnL = %f, want 50", ledgers["tok"].RealizedPnL())
	}
}

func TestBuildLedgers_UnknownTypeOpensLedgerOnly(t *testing.T) {
	events := []TradeEvent{
		{TokenAddress: "tok", Type: EventUnknown, CostUSD: 99, TokenAmount: 5, MarkPrice: 1.5, Timestamp: 1},
	}

	ledgers := BuildLedgers(events)
	ledger, ok := ledgers["tok"]
	if !ok {
		t.Fatal("expected ledger opened for unknown event")
	}
	if ledger.TotalBoughtUSD != 0 || ledger.TotalSoldUSD != 0 || ledger.NetTokenBalance != 0 {
		t.Errorf("unknown event accumulated totals: %+v", ledger)
	}
	if ledger.MarkPrice != 1.5 {
		t.Errorf("MarkPrice = %f, want 1.5", ledger.MarkPrice)
	}
}

func TestBuildLedgers_MultipleTokens(t *testing.T) {
	events := []TradeEvent{
		{TokenAddress: "a", Type: EventBuy, CostUSD: 10, TokenAmount: 1, Timestamp: 1},
		{TokenAddress: "b", Type: EventSell, CostUSD: 20, TokenAmount: 2, Timestamp: 2},
	}

	ledgers := BuildLedgers(events)
	if len(ledgers) != 2 {
		t.Fatalf("expected 2 ledgers, got %d", len(ledgers))
	}
	if ledgers["a"].TotalBoughtUSD != 10 || ledgers["b"].TotalSoldUSD != 20 {
		t.Errorf("unexpected ledgers: a=%+v b=%+v", ledgers["a"], ledgers["b"])
	}
}
