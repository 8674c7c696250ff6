package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"whalesx/clients/gmgn"
	"whalesx/config"

	"go.uber.org/zap"
)

// TokenTasks runs the per-token analyses that accompany the wallet engine:
// bundle inspection, early buyer discovery, and the top holder/trader lists.
type TokenTasks struct {
	logger *zap.Logger
	source *gmgn.Client

	bundleCount      int
	earlyBuyersCount int
	topHoldersCount  int
	topTradersCount  int
	tradesFetchLimit int
}

// EarlyBuyer is one distinct wallet among the first buyers of a token.
type EarlyBuyer struct {
	Wallet      string
	QuoteAmount float64
	Timestamp   int64
}

// NewTokenTasks creates the token task runner.
func NewTokenTasks(logger *zap.Logger, source *gmgn.Client, cfg *config.Config) *TokenTasks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenTasks{
		logger:           logger,
		source:           source,
		bundleCount:      cfg.Tasks.BundleCount,
		earlyBuyersCount: cfg.Tasks.EarlyBuyersCount,
		topHoldersCount:  cfg.Tasks.TopHoldersCount,
		topTradersCount:  cfg.Tasks.TopTradersCount,
		tradesFetchLimit: cfg.Tasks.TradesFetchLimit,
	}
}

// AnalyzeBundles returns the earliest trades of the token, up to the
// configured bundle size.
func (t *TokenTasks) AnalyzeBundles(ctx context.Context, token string) ([]gmgn.TokenTrade, error) {
	trades, err := t.source.GetTokenTrades(ctx, token, t.tradesFetchLimit, true)
	if err != nil {
		return nil, fmt.Errorf("fetching token trades: %w", err)
	}
	return firstN(trades, t.bundleCount), nil
}

// EarlyBuyers returns the first distinct wallets that bought the token.
// Trades without a timestamp are unusable for ordering and are skipped, as
// are trades whose reported balance parses to exactly zero (dust sweeps and
// immediate full exits).
func (t *TokenTasks) EarlyBuyers(ctx context.Context, token string) ([]EarlyBuyer, error) {
	trades, err := t.source.GetTokenTrades(ctx, token, t.tradesFetchLimit, true)
	if err != nil {
		return nil, fmt.Errorf("fetching token trades: %w", err)
	}
	return SelectEarlyBuyers(trades, t.earlyBuyersCount), nil
}

// SelectEarlyBuyers filters, orders and dedupes raw trades into the early
// buyer list. Pure; the fetch lives in EarlyBuyers.
func SelectEarlyBuyers(trades []gmgn.TokenTrade, limit int) []EarlyBuyer {
	candidates := make([]gmgn.TokenTrade, 0, len(trades))
	for _, tr := range trades {
		if tr.Event != "buy" || tr.Timestamp <= 0 {
			continue
		}
		if bal, err := strconv.ParseFloat(tr.Balance, 64); err == nil && bal == 0 {
			continue
		}
		if tr.Wallet() == "" {
			continue
		}
		candidates = append(candidates, tr)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Timestamp < candidates[j].Timestamp
	})

	seen := make(map[string]bool)
	buyers := make([]EarlyBuyer, 0, limit)
	for _, tr := range candidates {
		wallet := tr.Wallet()
		if seen[wallet] {
			continue
		}
		seen[wallet] = true
		buyers = append(buyers, EarlyBuyer{
			Wallet:      wallet,
			QuoteAmount: tr.QuoteAmount.Float64(),
			Timestamp:   tr.Timestamp,
		})
		if len(buyers) == limit {
			break
		}
	}
	return buyers
}

// TopHolders returns the largest current holders of the token.
func (t *TokenTasks) TopHolders(ctx context.Context, token string) ([]gmgn.Holder, error) {
	holders, err := t.source.GetTopHolders(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetching top holders: %w", err)
	}
	return firstN(holders, t.topHoldersCount), nil
}

// TopTraders returns the most profitable traders of the token, ordered by
// realized profit descending.
func (t *TokenTasks) TopTraders(ctx context.Context, token string) ([]gmgn.Trader, error) {
	traders, err := t.source.GetTopTraders(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetching top traders: %w", err)
	}

	ranked := make([]gmgn.Trader, len(traders))
	copy(ranked, traders)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RealizedProfit.Float64() > ranked[j].RealizedProfit.Float64()
	})

	return firstN(ranked, t.topTradersCount), nil
}

func firstN[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// FormatBundles renders the bundle analysis as Markdown. escape is applied to
// untrusted fields; pass nil for identity.
func FormatBundles(trades []gmgn.TokenTrade, escape func(string) string) string {
	escape = orIdentity(escape)

	if len(trades) == 0 {
		return "❌ No trades found for this token."
	}

	var sb strings.Builder
	sb.WriteString("✅ *Bundle Analysis Results*:\n\n")
	for i, tr := range trades {
		sb.WriteString(fmt.Sprintf(
			"%d. Tx: `%s`\n   💰 Amount: %.4f SOL\n\n",
			i+1, escape(tr.TxHash), tr.QuoteAmount.Float64(),
		))
	}
	return strings.TrimSpace(sb.String())
}

// FormatEarlyBuyers renders the early buyer list as Markdown.
func FormatEarlyBuyers(buyers []EarlyBuyer, escape func(string) string) string {
	escape = orIdentity(escape)

	if len(buyers) == 0 {
		return "❌ No early buyers found for this token."
	}

	var sb strings.Builder
	sb.WriteString("🚀 *Early Buyers*:\n\n")
	for i, b := range buyers {
		sb.WriteString(fmt.Sprintf(
			"%d. Wallet: `%s`\n   💰 Bought: %.4f SOL\n\n",
			i+1, escape(b.Wallet), b.QuoteAmount,
		))
	}
	return strings.TrimSpace(sb.String())
}

// FormatTopHolders renders the holder list as Markdown. The upstream
// percentage is a 0..1 fraction and is shown as a percent.
func FormatTopHolders(holders []gmgn.Holder, escape func(string) string) string {
	escape = orIdentity(escape)

	if len(holders) == 0 {
		return "❌ No holders found for this token."
	}

	var sb strings.Builder
	sb.WriteString("🏆 *Top Holders Analysis*:\n\n")
	for i, h := range holders {
		sb.WriteString(fmt.Sprintf(
			"%d. Wallet: `%s`\n   💰 Amount: %.2f Spl\n   📊 Owned: %.2f%%\n\n",
			i+1, escape(h.Address), h.AmountCur.Float64(), h.AmountPercentage.Float64()*100,
		))
	}
	return strings.TrimSpace(sb.String())
}

// FormatTopTraders renders the trader list as Markdown.
func FormatTopTraders(traders []gmgn.Trader, escape func(string) string) string {
	escape = orIdentity(escape)

	if len(traders) == 0 {
		return "❌ No traders found for this token."
	}

	var sb strings.Builder
	sb.WriteString("📈 *Top Traders Analysis*:\n\n")
	for i, tr := range traders {
		sb.WriteString(fmt.Sprintf(
			"%d. Wallet: `%s`\n   📈 Realized: %.2f USD\n   💵 Unrealized: %.2f USD\n   💰 Total: %.2f USD\n\n",
			i+1, escape(tr.Address),
			tr.RealizedProfit.Float64(), tr.UnrealizedProfit.Float64(), tr.Profit.Float64(),
		))
	}
	return strings.TrimSpace(sb.String())
}

func orIdentity(escape func(string) string) func(string) string {
	if escape == nil {
		return func(s string) string { return s }
	}
	return escape
}
