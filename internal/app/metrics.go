package app

import (
	"math"
	"sort"
)

// WalletResult holds the computed performance metrics for one wallet, or the
// sanitized error that prevented computing them.
type WalletResult struct {
	Wallet        string
	RealizedPnL   float64
	UnrealizedPnL float64
	Liquidity     float64
	WinRate       float64 // percent, 0..100
	SharpeRatio   float64
	Err           string // set only when the wallet's data could not be fetched
}

// Failed reports whether this result carries an error instead of metrics.
func (r WalletResult) Failed() bool {
	return r.Err != ""
}

// ComputeMetrics derives portfolio-level statistics from the per-token
// ledgers. windowTradeCount is the number of trade events inside the window
// (all types), which is the win-rate denominator.
//
// Tokens are visited in sorted address order so repeated evaluations of the
// same input produce bit-identical floating point sums.
func ComputeMetrics(wallet string, ledgers map[string]*TokenLedger, windowTradeCount int, riskFreeRate float64) WalletResult {
	result := WalletResult{Wallet: wallet}

	tokens := make([]string, 0, len(ledgers))
	for token := range ledgers {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	winningTokens := 0
	returns := make([]float64, 0, len(tokens))

	for _, token := range tokens {
		ledger := ledgers[token]

		held := ledger.NetTokenBalance * ledger.MarkPrice
		result.RealizedPnL += ledger.RealizedPnL()
		result.UnrealizedPnL += held - ledger.TotalBoughtUSD
		result.Liquidity += held

		// Zero-spend tokens contribute a flat return and can never win,
		// whatever their sell total says.
		if ledger.TotalBoughtUSD > 0 {
			returns = append(returns, ledger.RealizedPnL()/ledger.TotalBoughtUSD*100)
			if ledger.RealizedPnL() > 0 {
				winningTokens++
			}
		} else {
			returns = append(returns, 0)
		}
	}

	if windowTradeCount > 0 {
		result.WinRate = float64(winningTokens) / float64(windowTradeCount) * 100
	}

	mean := meanOf(returns)
	volatility := populationStdDev(returns, mean)
	if volatility > 0 {
		result.SharpeRatio = (mean - riskFreeRate) / volatility
	}

	return result
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev divides by N, not N-1.
func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
