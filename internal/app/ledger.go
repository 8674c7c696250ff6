package app

import (
	"time"
)

// TokenLedger accumulates one wallet's activity in a single token over the
// evaluation window. Scoped to one evaluation, never persisted.
type TokenLedger struct {
	TotalBoughtUSD  float64
	TotalSoldUSD    float64
	NetTokenBalance float64
	MarkPrice       float64 // taken from the first event seen for the token
}

// RealizedPnL is the completed profit or loss for this token.
func (l *TokenLedger) RealizedPnL() float64 {
	return l.TotalSoldUSD - l.TotalBoughtUSD
}

// FilterWindow retains only events at or after the cutoff instant. Events
// without a usable timestamp (zero) fall before any realistic cutoff and are
// dropped. Empty input and empty output are both valid.
func FilterWindow(events []TradeEvent, cutoff time.Time) []TradeEvent {
	cutoffUnix := cutoff.Unix()
	filtered := make([]TradeEvent, 0, len(events))
	for _, e := range events {
		if e.Timestamp >= cutoffUnix {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// BuildLedgers groups window-filtered events by token address, accumulating
// buy/sell cost totals and the net token balance. Events are processed in
// input order; that order only matters for the mark price, which keeps the
// first value seen per token and is never overwritten afterwards.
//
// Unknown-type events open a ledger but accumulate nothing.
//
// After accumulation each negative balance is clamped to zero: sells
// exceeding tracked buys mean the position predates the window, and the
// token is treated as fully exited rather than short.
func BuildLedgers(events []TradeEvent) map[string]*TokenLedger {
	ledgers := make(map[string]*TokenLedger)

	for _, e := range events {
		ledger, ok := ledgers[e.TokenAddress]
		if !ok {
			ledger = &TokenLedger{}
			ledgers[e.TokenAddress] = ledger
		}

		if ledger.MarkPrice == 0 {
			ledger.MarkPrice = e.MarkPrice
		}

		switch e.Type {
		case EventBuy:
			ledger.TotalBoughtUSD += e.CostUSD
			ledger.NetTokenBalance += e.TokenAmount
		case EventSell:
			ledger.TotalSoldUSD += e.CostUSD
			ledger.NetTokenBalance -= e.TokenAmount
		}
	}

	for _, ledger := range ledgers {
		if ledger.NetTokenBalance < 0 {
			ledger.NetTokenBalance = 0
		}
	}

	return ledgers
}
