package gmgn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"whalesx/config"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client communicates with the GMGN quotation API for the Solana chain.
type Client struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
	referer    string
	limiter    *rate.Limiter
}

// NewClient creates a new GMGN API client.
func NewClient(logger *zap.Logger, cfg *config.Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Gmgn.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rps := cfg.Gmgn.RateLimit
	if rps <= 0 {
		rps = 5.0
	}
	burst := cfg.Gmgn.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.Gmgn.BaseURL, "/"),
		referer:    cfg.Gmgn.Referer,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// GetWalletActivity fetches buy/sell activity for a wallet, ordered by
// timestamp as returned by the upstream.
func (c *Client) GetWalletActivity(ctx context.Context, wallet string) ([]WalletActivity, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, fmt.Errorf("wallet is empty")
	}

	u, err := url.Parse(c.baseURL + "/defi/quotation/v1/wallet_activity/sol")
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	q := u.Query()
	q.Add("type", "buy")
	q.Add("type", "sell")
	q.Set("wallet", wallet)
	q.Set("orderby", "timestamp")
	u.RawQuery = q.Encode()

	var envelope struct {
		Data struct {
			Activities []WalletActivity `json:"activities"`
		} `json:"data"`
	}
	if err := c.doGet(ctx, u.String(), &envelope); err != nil {
		return nil, fmt.Errorf("get wallet activity: %w", err)
	}

	return envelope.Data.Activities, nil
}

// GetTopHolders fetches the holder list for a token contract.
func (c *Client) GetTopHolders(ctx context.Context, token string) ([]Holder, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	endpoint := fmt.Sprintf("%s/defi/quotation/v1/tokens/top_holders/sol/%s", c.baseURL, url.PathEscape(token))

	var envelope struct {
		Data []Holder `json:"data"`
	}
	if err := c.doGet(ctx, endpoint, &envelope); err != nil {
		return nil, fmt.Errorf("get top holders: %w", err)
	}

	return envelope.Data, nil
}

// GetTopTraders fetches the trader list for a token contract.
func (c *Client) GetTopTraders(ctx context.Context, token string) ([]Trader, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	endpoint := fmt.Sprintf("%s/defi/quotation/v1/tokens/top_traders/sol/%s", c.baseURL, url.PathEscape(token))

	var envelope struct {
		Data []Trader `json:"data"`
	}
	if err := c.doGet(ctx, endpoint, &envelope); err != nil {
		return nil, fmt.Errorf("get top traders: %w", err)
	}

	return envelope.Data, nil
}

// GetTokenTrades fetches recent trades for a token contract. With revert set
// the upstream returns oldest-first ordering. The "data" field is either a
// plain array or an object carrying a "history" array; both shapes occur.
func (c *Client) GetTokenTrades(ctx context.Context, token string, limit int, revert bool) ([]TokenTrade, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	u, err := url.Parse(fmt.Sprintf("%s/defi/quotation/v1/trades/sol/%s", c.baseURL, url.PathEscape(token)))
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	q := u.Query()
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if revert {
		q.Set("revert", "true")
	}
	u.RawQuery = q.Encode()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.doGet(ctx, u.String(), &envelope); err != nil {
		return nil, fmt.Errorf("get token trades: %w", err)
	}

	trades, err := parseTradesData(envelope.Data)
	if err != nil {
		return nil, fmt.Errorf("get token trades: %w", err)
	}

	return trades, nil
}

// parseTradesData handles the two shapes of the trades "data" field.
func parseTradesData(raw json.RawMessage) ([]TokenTrade, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var trades []TokenTrade
	if err := json.Unmarshal(raw, &trades); err == nil {
		return trades, nil
	}

	var wrapped struct {
		History []TokenTrade `json:"history"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.History != nil {
		return wrapped.History, nil
	}

	return nil, fmt.Errorf("unexpected data shape: neither a list nor an object with history")
}

func (c *Client) doGet(ctx context.Context, url string, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, truncate(string(body), 256))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
