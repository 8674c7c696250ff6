package discord

import (
	"context"
	"whalesx/clients/notifier"
	"whalesx/config"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordClient mirrors analysis reports into a fixed Discord channel.
// Implements notifier.Messenger.
type DiscordClient struct {
	logger    *zap.Logger
	session   *discordgo.Session
	channelID string
	isProd    bool
}

func NewDiscordClient(logger *zap.Logger, cfg *config.Config) *DiscordClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	channelID := cfg.Discord.BetaChannelID
	if cfg.IsProd {
		channelID = cfg.Discord.ProdChannelID
	}

	token := cfg.Discord.BotToken
	if token == "" {
		logger.Warn("DISCORD_BOT_TOKEN not set, Discord mirror disabled")
		return &DiscordClient{
			logger:    logger,
			channelID: channelID,
			isProd:    cfg.IsProd,
		}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Error("failed to create discord session", zap.Error(err))
		return &DiscordClient{
			logger:    logger,
			channelID: channelID,
			isProd:    cfg.IsProd,
		}
	}

	logger.Info("discord mirror initialized",
		zap.Bool("isProd", cfg.IsProd),
		zap.String("channelID", channelID),
	)

	return &DiscordClient{
		logger:    logger,
		session:   session,
		channelID: channelID,
		isProd:    cfg.IsProd,
	}
}

// Enabled reports whether the mirror can deliver messages.
func (dc *DiscordClient) Enabled() bool {
	return dc.session != nil && dc.channelID != ""
}

// SendReport sends each report chunk to the configured channel.
// Implements notifier.Messenger.
func (dc *DiscordClient) SendReport(ctx context.Context, report notifier.Report) {
	if !dc.Enabled() {
		dc.logger.Debug("discord mirror not configured, skipping report")
		return
	}

	for i, chunk := range report.Chunks {
		if _, err := dc.session.ChannelMessageSend(dc.channelID, chunk); err != nil {
			dc.logger.Error("failed to send discord chunk",
				zap.Int("chunk", i),
				zap.Error(err),
			)
			return
		}
	}

	dc.logger.Info("mirrored report to discord",
		zap.String("title", report.Title),
		zap.Int("chunks", len(report.Chunks)),
	)
}

// Close shuts down the Discord session. Implements notifier.Messenger.
func (dc *DiscordClient) Close() error {
	if dc.session == nil {
		return nil
	}
	return dc.session.Close()
}
