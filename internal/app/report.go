package app

import (
	"fmt"
	"sort"
	"strings"
)

// Messages produced when there is nothing to rank.
const (
	msgNoWallets           = "❌ No wallets supplied for analysis."
	msgNoQualifyingWallets = "❌ No qualifying wallets found."
)

// ReportBuilder ranks wallet results and renders them as chunked Markdown.
type ReportBuilder struct {
	chunkLimit  int
	onlyWinners bool
	escape      func(string) string
}

// NewReportBuilder creates a report builder. escape is applied to every piece
// of untrusted text (wallet addresses, upstream error strings); pass nil for
// identity.
func NewReportBuilder(chunkLimit int, onlyWinners bool, escape func(string) string) *ReportBuilder {
	if chunkLimit <= 0 {
		chunkLimit = 4096
	}
	if escape == nil {
		escape = func(s string) string { return s }
	}
	return &ReportBuilder{
		chunkLimit:  chunkLimit,
		onlyWinners: onlyWinners,
		escape:      escape,
	}
}

// Build renders the ranked bulk wallet report, split into chunks no longer
// than the configured limit. An empty input short-circuits to a single
// "no wallets" chunk.
func (b *ReportBuilder) Build(results []WalletResult) []string {
	if len(results) == 0 {
		return []string{msgNoWallets}
	}

	ranked := Rank(results, b.onlyWinners)
	if len(ranked) == 0 {
		return []string{msgNoQualifyingWallets}
	}

	var sb strings.Builder
	sb.WriteString("💼 *Bulk Wallet Stats*\n\n")
	for _, r := range ranked {
		sb.WriteString(b.formatResult(r))
	}

	text := strings.TrimSpace(sb.String())
	return ChunkText(text, b.chunkLimit)
}

// Rank orders successful results by win rate descending (stable: equal win
// rates keep their input order) and appends error results after them. With
// onlyWinners set, zero win-rate results and error results are dropped
// entirely.
func Rank(results []WalletResult, onlyWinners bool) []WalletResult {
	var successes, failures []WalletResult
	for _, r := range results {
		if r.Failed() {
			failures = append(failures, r)
		} else {
			successes = append(successes, r)
		}
	}

	sort.SliceStable(successes, func(i, j int) bool {
		return successes[i].WinRate > successes[j].WinRate
	})

	if onlyWinners {
		var winners []WalletResult
		for _, r := range successes {
			if r.WinRate > 0 {
				winners = append(winners, r)
			}
		}
		return winners
	}

	return append(successes, failures...)
}

func (b *ReportBuilder) formatResult(r WalletResult) string {
	wallet := b.escape(r.Wallet)

	if r.Failed() {
		return fmt.Sprintf("❌ Wallet `%s`: %s\n\n", wallet, b.escape(r.Err))
	}

	return fmt.Sprintf(
		"🔹 Wallet: `%s`\n"+
			"   📈 Realized PnL: %.2f USD\n"+
			"   💵 Unrealized PnL: %.2f USD\n"+
			"   🏆 Winrate: %.2f%%\n"+
			"   📊 Sharpe Ratio: %.2f\n"+
			"   🌊 Liquidity: %.2f USD\n"+
			"   🔗 https://gmgn.ai/sol/address/%s\n\n",
		wallet,
		r.RealizedPnL,
		r.UnrealizedPnL,
		r.WinRate,
		r.SharpeRatio,
		r.Liquidity,
		r.Wallet,
	)
}

// ChunkText splits text on line boundaries into chunks of at most limit
// characters. A line is never split across chunks; the boundary goes before
// the line that would overflow. Joining the chunks with "\n" reproduces the
// input exactly. A single line longer than the limit becomes its own
// oversized chunk.
func ChunkText(text string, limit int) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	var chunks []string
	var current strings.Builder

	for _, line := range lines {
		need := len(line)
		if current.Len() > 0 {
			need += current.Len() + 1 // joining newline
		}

		if current.Len() > 0 && need > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
