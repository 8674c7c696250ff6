package app

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	clts "whalesx/clients"
	"whalesx/clients/notifier"
	"whalesx/clients/telegram"
	"whalesx/config"

	"go.uber.org/zap"
)

// Callback data values for the inline menu.
const (
	cbStartAnalysis = "start_analysis"
	cbBulkWallet    = "bulkwallet"
	cbTopHolders    = "topholders"
	cbTopTraders    = "toptraders"
	cbEarlyBuyers   = "earlybuyers"
)

// pollRetryDelay is how long to back off after a failed getUpdates call.
const pollRetryDelay = 5 * time.Second

var (
	emailRe = regexp.MustCompile(`^[\w.+-]+@[\w-]+\.[\w.-]+$`)

	// Solana addresses are base58, 32 to 44 characters.
	tokenAddressRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

// Runner drives the bot: it long-polls Telegram for updates and dispatches
// commands, token addresses and menu presses to the analysis engine.
type Runner struct {
	clients   *clts.Clients
	cfg       *config.Config
	analyzer  *BulkWalletAnalyzer
	tokens    *TokenTasks
	sessions  *SessionStore
	users     *UserStore
	reports   *ReportBuilder
	startTime time.Time
}

// NewRunner wires the bot together.
func NewRunner(clients *clts.Clients, cfg *config.Config) *Runner {
	return &Runner{
		clients:  clients,
		cfg:      cfg,
		analyzer: NewBulkWalletAnalyzer(clients.Logger, clients.Gmgn, cfg),
		tokens:   NewTokenTasks(clients.Logger, clients.Gmgn, cfg),
		sessions: NewSessionStore(cfg),
		users:    NewUserStore(clients.Logger, cfg),
		reports:  NewReportBuilder(cfg.Analyzer.ChunkLimit, cfg.Analyzer.OnlyWinners, telegram.EscapeMarkdown),
	}
}

// Run long-polls for updates until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.startTime = time.Now()
	logger := r.clients.Logger

	if !r.clients.Telegram.Enabled() {
		return fmt.Errorf("telegram bot token not configured")
	}

	logger.Info("starting update loop",
		zap.Duration("pollTimeout", r.cfg.Telegram.PollTimeout),
		zap.Duration("analysisWindow", r.cfg.Analyzer.Window),
		zap.Bool("discordMirror", r.clients.Discord.Enabled()),
	)

	var offset int64
	for {
		select {
		case <-ctx.Done():
			logger.Info("update loop stopping", zap.Duration("uptime", time.Since(r.startTime)))
			return r.shutdown()
		default:
		}

		updates, err := r.clients.Telegram.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return r.shutdown()
			}
			logger.Warn("getUpdates failed, retrying", zap.Error(err))
			select {
			case <-ctx.Done():
				return r.shutdown()
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			r.handleUpdate(ctx, update)
		}
	}
}

func (r *Runner) shutdown() error {
	if err := r.users.Close(); err != nil {
		r.clients.Logger.Warn("closing user store", zap.Error(err))
	}
	return r.clients.Messenger.Close()
}

func (r *Runner) handleUpdate(ctx context.Context, update telegram.Update) {
	switch {
	case update.CallbackQuery != nil:
		r.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		r.handleMessage(ctx, update.Message)
	}
}

func (r *Runner) handleMessage(ctx context.Context, msg *telegram.Message) {
	if msg.From == nil {
		return
	}

	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID
	userID := msg.From.ID

	switch {
	case strings.HasPrefix(text, "/start"):
		r.handleStart(ctx, chatID, userID, strings.TrimSpace(strings.TrimPrefix(text, "/start")))
	case text == "/status":
		r.handleStatus(ctx, chatID, userID)
	case strings.HasPrefix(text, "/referral"):
		r.handleReferral(ctx, chatID, userID, strings.TrimSpace(strings.TrimPrefix(text, "/referral")))
	case emailRe.MatchString(text):
		r.handleEmail(ctx, chatID, userID, text)
	case tokenAddressRe.MatchString(text):
		r.handleTokenAddress(ctx, chatID, text)
	default:
		r.send(ctx, chatID, "🤔 Send a Solana token address to analyze, or use /start.")
	}
}

// handleStart registers the user and either asks for their email or, for a
// completed registration, shows the analysis menu. A numeric payload is a
// referral deep link carrying the referrer's ID.
func (r *Runner) handleStart(ctx context.Context, chatID, userID int64, payload string) {
	logger := r.clients.Logger

	user, err := r.users.Register(ctx, userID)
	if err != nil {
		logger.Error("registration failed", zap.Int64("userId", userID), zap.Error(err))
		r.send(ctx, chatID, "❌ Registration failed, please try again later.")
		return
	}

	if payload != "" {
		if referrerID, err := strconv.ParseInt(payload, 10, 64); err == nil && referrerID != userID {
			if err := r.users.AddReferral(ctx, referrerID, userID); err != nil {
				logger.Warn("recording referral failed",
					zap.Int64("referrerId", referrerID),
					zap.Int64("referredId", userID),
					zap.Error(err),
				)
			}
		}
	}

	if user.Email == "" {
		r.send(ctx, chatID, "👋 Welcome to WhalesX!\n\n📧 Please reply with your email address to finish signing up.")
		return
	}

	keyboard := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "🚀 Start Analysis", CallbackData: cbStartAnalysis}},
		},
	}
	if err := r.clients.Telegram.SendMessageWithKeyboard(ctx, chatID,
		"👋 Welcome back to WhalesX!", keyboard); err != nil {
		logger.Error("sending welcome failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// handleEmail completes registration: the user's waitlist position is the
// registry size at signup time, and they get their referral deep link.
func (r *Runner) handleEmail(ctx context.Context, chatID, userID int64, email string) {
	logger := r.clients.Logger

	user, err := r.users.Get(ctx, userID)
	if err != nil || user == nil {
		logger.Error("loading user for email failed", zap.Int64("userId", userID), zap.Error(err))
		r.send(ctx, chatID, "❌ Please /start before submitting your email.")
		return
	}

	if user.Email != "" {
		r.send(ctx, chatID, "✅ You are already registered.")
		return
	}

	count, err := r.users.Count(ctx)
	if err != nil {
		logger.Warn("counting users failed", zap.Error(err))
	}

	user.Email = email
	user.Position = count
	if err := r.users.Save(ctx, user); err != nil {
		logger.Error("saving user failed", zap.Int64("userId", userID), zap.Error(err))
		r.send(ctx, chatID, "❌ Could not save your registration, please try again.")
		return
	}

	r.send(ctx, chatID, fmt.Sprintf(
		"✅ You're on the waitlist at position %d!\n\n🔗 Invite friends with your referral link:\n%s",
		user.Position, r.referralLink(userID),
	))
}

func (r *Runner) handleStatus(ctx context.Context, chatID, userID int64) {
	user, err := r.users.Get(ctx, userID)
	if err != nil || user == nil {
		r.send(ctx, chatID, "❌ You are not registered yet. Use /start.")
		return
	}

	r.send(ctx, chatID, fmt.Sprintf(
		"📋 *Your Status*\n\n"+
			"🏅 Waitlist position: %d\n"+
			"👥 Referrals: %d\n"+
			"💰 Fees earned: %.2f",
		user.Position, len(user.Referrals), user.FeesEarned,
	))
}

// handleReferral without an argument shows the user's own link; with a
// numeric argument it credits that referrer for the current user.
func (r *Runner) handleReferral(ctx context.Context, chatID, userID int64, arg string) {
	if arg == "" {
		r.send(ctx, chatID, fmt.Sprintf("🔗 Your referral link:\n%s", r.referralLink(userID)))
		return
	}

	referrerID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || referrerID == userID {
		r.send(ctx, chatID, "❌ Invalid referral ID.")
		return
	}

	if err := r.users.AddReferral(ctx, referrerID, userID); err != nil {
		r.clients.Logger.Warn("recording referral failed",
			zap.Int64("referrerId", referrerID),
			zap.Int64("referredId", userID),
			zap.Error(err),
		)
		r.send(ctx, chatID, "❌ Could not record the referral.")
		return
	}

	r.send(ctx, chatID, "✅ Referral recorded, thanks!")
}

func (r *Runner) referralLink(userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", r.cfg.Telegram.BotUsername, userID)
}

// handleTokenAddress runs the bundle analysis for the token, then prefetches
// the holder and trader lists into the chat session so the menu actions
// answer instantly.
func (r *Runner) handleTokenAddress(ctx context.Context, chatID int64, token string) {
	logger := r.clients.Logger
	r.send(ctx, chatID, "🔍 Analyzing token, one moment…")

	trades, err := r.tokens.AnalyzeBundles(ctx, token)
	if err != nil {
		logger.Warn("bundle analysis failed", zap.String("token", shortID(token)), zap.Error(err))
		r.send(ctx, chatID, "❌ Could not fetch trades for this token.")
		return
	}
	r.sendReport(ctx, chatID, FormatBundles(trades, telegram.EscapeMarkdown))

	session := &Session{LastToken: token, ReadyForAnalysis: true}

	if holders, err := r.tokens.TopHolders(ctx, token); err != nil {
		logger.Warn("holder prefetch failed", zap.String("token", shortID(token)), zap.Error(err))
	} else {
		session.Holders = holders
	}

	if traders, err := r.tokens.TopTraders(ctx, token); err != nil {
		logger.Warn("trader prefetch failed", zap.String("token", shortID(token)), zap.Error(err))
	} else {
		session.Traders = traders
	}

	r.sessions.Put(chatID, session)

	keyboard := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "💼 Bulk Wallet Stats", CallbackData: cbBulkWallet}},
			{{Text: "🏆 Top Holders", CallbackData: cbTopHolders}},
			{{Text: "📈 Top Traders", CallbackData: cbTopTraders}},
			{{Text: "🚀 Early Buyers", CallbackData: cbEarlyBuyers}},
		},
	}
	if err := r.clients.Telegram.SendMessageWithKeyboard(ctx, chatID,
		"📊 What would you like to analyze next?", keyboard); err != nil {
		logger.Error("sending menu failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Runner) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	logger := r.clients.Logger

	if err := r.clients.Telegram.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		logger.Warn("answering callback failed", zap.Error(err))
	}

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	switch cb.Data {
	case cbStartAnalysis:
		r.send(ctx, chatID, "📩 Send me a Solana token address to analyze.")
	case cbBulkWallet:
		r.runBulkWallet(ctx, chatID)
	case cbTopHolders:
		session := r.sessions.Get(chatID)
		if session == nil || len(session.Holders) == 0 {
			r.send(ctx, chatID, "❌ No token analyzed yet. Send a token address first.")
			return
		}
		r.sendReport(ctx, chatID, FormatTopHolders(session.Holders, telegram.EscapeMarkdown))
	case cbTopTraders:
		session := r.sessions.Get(chatID)
		if session == nil || len(session.Traders) == 0 {
			r.send(ctx, chatID, "❌ No token analyzed yet. Send a token address first.")
			return
		}
		r.sendReport(ctx, chatID, FormatTopTraders(session.Traders, telegram.EscapeMarkdown))
	case cbEarlyBuyers:
		session := r.sessions.Get(chatID)
		if session == nil || session.LastToken == "" {
			r.send(ctx, chatID, "❌ No token analyzed yet. Send a token address first.")
			return
		}
		buyers, err := r.tokens.EarlyBuyers(ctx, session.LastToken)
		if err != nil {
			logger.Warn("early buyer analysis failed",
				zap.String("token", shortID(session.LastToken)),
				zap.Error(err),
			)
			r.send(ctx, chatID, "❌ Could not fetch early buyers for this token.")
			return
		}
		r.sendReport(ctx, chatID, FormatEarlyBuyers(buyers, telegram.EscapeMarkdown))
	default:
		logger.Warn("unknown callback data", zap.String("data", cb.Data))
	}
}

// runBulkWallet analyzes the distinct wallets behind the session's holder and
// trader lists and delivers the ranked performance report.
func (r *Runner) runBulkWallet(ctx context.Context, chatID int64) {
	logger := r.clients.Logger

	session := r.sessions.Get(chatID)
	if session == nil || !session.ReadyForAnalysis {
		r.send(ctx, chatID, "❌ No token analyzed yet. Send a token address first.")
		return
	}

	wallets := make([]string, 0, len(session.Holders)+len(session.Traders))
	for _, h := range session.Holders {
		wallets = append(wallets, h.Address)
	}
	for _, t := range session.Traders {
		wallets = append(wallets, t.Address)
	}
	wallets = dedupe(wallets)

	if len(wallets) == 0 {
		r.send(ctx, chatID, msgNoWallets)
		return
	}

	r.send(ctx, chatID, fmt.Sprintf("⏳ Analyzing %d wallets, this can take a while…", len(wallets)))

	start := time.Now()
	results := r.analyzer.AnalyzeWallets(ctx, wallets)
	chunks := r.reports.Build(results)

	logger.Info("bulk wallet analysis complete",
		zap.Int64("chatID", chatID),
		zap.String("token", shortID(session.LastToken)),
		zap.Int("wallets", len(wallets)),
		zap.Int("chunks", len(chunks)),
		zap.Duration("took", time.Since(start)),
	)

	r.clients.Messenger.SendReport(ctx, notifier.Report{
		ChatID: chatID,
		Title:  "Bulk Wallet Stats",
		Chunks: chunks,
	})
}

// sendReport chunk-splits long formatted output before sending.
func (r *Runner) sendReport(ctx context.Context, chatID int64, text string) {
	for _, chunk := range ChunkText(text, r.cfg.Analyzer.ChunkLimit) {
		r.send(ctx, chatID, chunk)
	}
}

func (r *Runner) send(ctx context.Context, chatID int64, text string) {
	if err := r.clients.Telegram.SendMessage(ctx, chatID, text); err != nil {
		r.clients.Logger.Error("sending message failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}
