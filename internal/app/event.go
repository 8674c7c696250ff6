package app

import (
	"whalesx/clients/gmgn"
)

// EventType is the direction of a trade event.
type EventType string

const (
	EventBuy     EventType = "buy"
	EventSell    EventType = "sell"
	EventUnknown EventType = "unknown"
)

// unknownToken is the sentinel used when the upstream record carries no
// token address.
const unknownToken = "N/A"

// TradeEvent is the canonical form of one raw trade record. Immutable after
// normalization.
type TradeEvent struct {
	TokenAddress string
	Type         EventType
	CostUSD      float64 // USD spent on buys, USD received on sells
	TokenAmount  float64
	MarkPrice    float64 // price snapshot embedded on the event, 0 when unusable
	Timestamp    int64   // unix seconds, 0 when absent
}

// NormalizeActivity converts one raw activity record into a TradeEvent.
// Missing or malformed fields degrade to their defaults; normalization never
// fails a record outright.
func NormalizeActivity(raw gmgn.WalletActivity) TradeEvent {
	token := raw.TokenAddress
	if token == "" {
		token = unknownToken
	}

	var eventType EventType
	switch raw.EventType {
	case "buy":
		eventType = EventBuy
	case "sell":
		eventType = EventSell
	default:
		eventType = EventUnknown
	}

	cost := raw.CostUSD.Float64()
	if cost < 0 {
		cost = 0
	}

	return TradeEvent{
		TokenAddress: token,
		Type:         eventType,
		CostUSD:      cost,
		TokenAmount:  raw.TokenAmount.Float64(),
		MarkPrice:    raw.Token.Price.Float64(),
		Timestamp:    raw.Timestamp,
	}
}

// NormalizeActivities converts a raw activity list, preserving order.
func NormalizeActivities(raw []gmgn.WalletActivity) []TradeEvent {
	events := make([]TradeEvent, 0, len(raw))
	for _, r := range raw {
		events = append(events, NormalizeActivity(r))
	}
	return events
}
