package app

import (
	"context"
	"strings"
	"time"
	"whalesx/clients/gmgn"
	"whalesx/config"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BulkWalletAnalyzer computes trading performance for a batch of wallets.
// Fetches run concurrently with a bounded pool; the ledger and metrics
// stages are pure CPU work and run per wallet with no shared state, so a
// failure in one wallet never affects another.
type BulkWalletAnalyzer struct {
	logger       *zap.Logger
	source       *gmgn.Client
	window       time.Duration
	riskFreeRate float64
	concurrency  int

	now func() time.Time
}

// NewBulkWalletAnalyzer creates an analyzer using the GMGN client as the
// activity source.
func NewBulkWalletAnalyzer(logger *zap.Logger, source *gmgn.Client, cfg *config.Config) *BulkWalletAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	window := cfg.Analyzer.Window
	if window <= 0 {
		window = 31 * 24 * time.Hour
	}

	concurrency := cfg.Analyzer.FetchConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &BulkWalletAnalyzer{
		logger:       logger,
		source:       source,
		window:       window,
		riskFreeRate: cfg.Analyzer.RiskFreeRate,
		concurrency:  concurrency,
		now:          time.Now,
	}
}

// AnalyzeWallets evaluates every wallet in the batch and returns one result
// per wallet, in input order. Upstream failures become per-wallet error
// results; the batch always completes.
func (a *BulkWalletAnalyzer) AnalyzeWallets(ctx context.Context, wallets []string) []WalletResult {
	results := make([]WalletResult, len(wallets))
	cutoff := a.now().Add(-a.window)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, wallet := range wallets {
		i, wallet := i, wallet
		g.Go(func() error {
			activities, err := a.source.GetWalletActivity(gctx, wallet)
			if err != nil {
				a.logger.Warn("wallet activity fetch failed",
					zap.String("wallet", shortID(wallet)),
					zap.Error(err),
				)
				results[i] = WalletResult{Wallet: wallet, Err: sanitizeError(err)}
				return nil
			}

			results[i] = a.analyzeWallet(wallet, activities, cutoff)
			return nil
		})
	}

	// Goroutines never return errors; per-wallet failures live in results.
	_ = g.Wait()

	return results
}

// analyzeWallet runs the normalize → window-filter → ledger → metrics
// pipeline for one wallet.
func (a *BulkWalletAnalyzer) analyzeWallet(wallet string, activities []gmgn.WalletActivity, cutoff time.Time) WalletResult {
	events := NormalizeActivities(activities)
	windowed := FilterWindow(events, cutoff)
	ledgers := BuildLedgers(windowed)

	result := ComputeMetrics(wallet, ledgers, len(windowed), a.riskFreeRate)

	a.logger.Debug("analyzed wallet",
		zap.String("wallet", shortID(wallet)),
		zap.Int("eventsTotal", len(events)),
		zap.Int("eventsInWindow", len(windowed)),
		zap.Int("tokens", len(ledgers)),
		zap.Float64("winRate", result.WinRate),
	)

	return result
}

// sanitizeError reduces an upstream error to a short single-line message
// safe for user-facing output.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	if len(msg) > 200 {
		msg = msg[:200] + "…"
	}
	return msg
}
