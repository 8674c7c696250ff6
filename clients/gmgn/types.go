package gmgn

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexFloat is a float64 that tolerates the encodings the GMGN API actually
// produces: JSON numbers, numeric strings, null, and non-numeric sentinels
// like "N/A". Anything unusable decodes to 0.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexFloat(num)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			*f = FlexFloat(parsed)
			return nil
		}
	}

	// Sentinel or unexpected shape: degrade to zero rather than failing
	// the whole record.
	*f = 0
	return nil
}

// Float64 returns the underlying value.
func (f FlexFloat) Float64() float64 {
	return float64(f)
}

// TokenSnapshot is the price snapshot embedded on a wallet activity record.
type TokenSnapshot struct {
	Price FlexFloat `json:"price"`
}

// WalletActivity is one raw trade record from the wallet activity endpoint.
// Every numeric field may be null, a string, or absent upstream.
type WalletActivity struct {
	TokenAddress string        `json:"token_address"`
	EventType    string        `json:"event_type"`
	CostUSD      FlexFloat     `json:"cost_usd"`
	TokenAmount  FlexFloat     `json:"token_amount"`
	PriceUSD     FlexFloat     `json:"price_usd"`
	Token        TokenSnapshot `json:"token"`
	Timestamp    int64         `json:"timestamp"`
}

// Holder is one entry from the top holders endpoint.
type Holder struct {
	Address          string    `json:"address"`
	AmountPercentage FlexFloat `json:"amount_percentage"` // fraction, 0..1
	AmountCur        FlexFloat `json:"amount_cur"`
}

// Trader is one entry from the top traders endpoint.
type Trader struct {
	Address          string    `json:"address"`
	RealizedProfit   FlexFloat `json:"realized_profit"`
	UnrealizedProfit FlexFloat `json:"unrealized_profit"`
	Profit           FlexFloat `json:"profit"`
}

// TokenTrade is one entry from the token trades endpoint.
type TokenTrade struct {
	TxHash      string    `json:"tx_hash"`
	Event       string    `json:"event"`
	QuoteAmount FlexFloat `json:"quote_amount"`
	Balance     string    `json:"balance"`
	Address     string    `json:"address"`
	Maker       string    `json:"maker"`
	Timestamp   int64     `json:"timestamp"`
}

// Wallet returns the trade's wallet identifier, preferring Address over Maker.
func (t *TokenTrade) Wallet() string {
	if t.Address != "" {
		return t.Address
	}
	return t.Maker
}
