package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"whalesx/clients/notifier"
	"whalesx/config"

	"go.uber.org/zap"
)

const telegramAPIURL = "https://api.telegram.org/bot%s/%s"

// Update is one incoming update from the Bot API.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message is an incoming or edited chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
	From      *User  `json:"from"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// User is a Telegram account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// CallbackQuery is a button press on an inline keyboard.
type CallbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data"`
	From    User     `json:"from"`
	Message *Message `json:"message"`
}

// InlineKeyboardButton is one button of an inline keyboard.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// InlineKeyboardMarkup is a grid of inline buttons.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// TelegramClient talks to the Telegram Bot API: outbound messages and
// long-polled updates. Implements notifier.Messenger.
type TelegramClient struct {
	logger      *zap.Logger
	botToken    string
	pollTimeout time.Duration
	client      *http.Client
}

func NewTelegramClient(logger *zap.Logger, cfg *config.Config) *TelegramClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	pollTimeout := cfg.Telegram.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}

	token := cfg.Telegram.BotToken
	if token == "" {
		logger.Warn("TELEGRAM_BOT_KEY not set, Telegram disabled")
		return &TelegramClient{
			logger:      logger,
			pollTimeout: pollTimeout,
		}
	}

	logger.Info("telegram bot initialized", zap.Bool("isProd", cfg.IsProd))

	return &TelegramClient{
		logger:      logger,
		botToken:    token,
		pollTimeout: pollTimeout,
		// The HTTP timeout must outlast the long-poll window.
		client: &http.Client{Timeout: pollTimeout + 10*time.Second},
	}
}

// Enabled reports whether a bot token is configured.
func (tc *TelegramClient) Enabled() bool {
	return tc.botToken != ""
}

// GetUpdates long-polls the Bot API for updates after the given offset.
func (tc *TelegramClient) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	if tc.botToken == "" {
		return nil, fmt.Errorf("telegram not configured")
	}

	payload := map[string]any{
		"offset":          offset,
		"timeout":         int(tc.pollTimeout.Seconds()),
		"allowed_updates": []string{"message", "callback_query"},
	}

	var updates []Update
	if err := tc.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}

	return updates, nil
}

// SendMessage sends a Markdown-formatted message to a chat.
func (tc *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	return tc.SendMessageWithKeyboard(ctx, chatID, text, nil)
}

// SendMessageWithKeyboard sends a Markdown message with an optional inline keyboard.
func (tc *TelegramClient) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) error {
	if tc.botToken == "" {
		return fmt.Errorf("telegram not configured")
	}

	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}

	if err := tc.call(ctx, "sendMessage", payload, nil); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// EditMessageText rewrites an existing message's text.
func (tc *TelegramClient) EditMessageText(ctx context.Context, chatID, messageID int64, text string) error {
	if tc.botToken == "" {
		return fmt.Errorf("telegram not configured")
	}

	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	if err := tc.call(ctx, "editMessageText", payload, nil); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}

	return nil
}

// AnswerCallbackQuery acknowledges a button press so the client stops its spinner.
func (tc *TelegramClient) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	if tc.botToken == "" {
		return fmt.Errorf("telegram not configured")
	}

	payload := map[string]any{"callback_query_id": callbackID}

	if err := tc.call(ctx, "answerCallbackQuery", payload, nil); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}

	return nil
}

// SendReport delivers each chunk as a separate outbound message.
// Implements notifier.Messenger.
func (tc *TelegramClient) SendReport(ctx context.Context, report notifier.Report) {
	if tc.botToken == "" {
		tc.logger.Warn("telegram not configured, skipping report")
		return
	}

	for i, chunk := range report.Chunks {
		if err := tc.SendMessage(ctx, report.ChatID, chunk); err != nil {
			tc.logger.Error("failed to send report chunk",
				zap.Int("chunk", i),
				zap.Int64("chatID", report.ChatID),
				zap.Error(err),
			)
			return
		}
	}

	tc.logger.Info("sent telegram report",
		zap.Int64("chatID", report.ChatID),
		zap.Int("chunks", len(report.Chunks)),
	)
}

// Close cleans up resources. Implements notifier.Messenger.
func (tc *TelegramClient) Close() error {
	return nil
}

// call posts a JSON payload to a Bot API method and decodes the result.
func (tc *TelegramClient) call(ctx context.Context, method string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf(telegramAPIURL, tc.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		OK          bool            `json:"ok"`
		Result      json.RawMessage `json:"result"`
		Description string          `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !envelope.OK {
		return fmt.Errorf("telegram API error: status=%d description=%s", resp.StatusCode, envelope.Description)
	}

	if result != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}

	return nil
}

// EscapeMarkdown escapes special characters for Telegram Markdown.
func EscapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
