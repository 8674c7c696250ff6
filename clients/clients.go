package clients

import (
	"whalesx/clients/discord"
	"whalesx/clients/gmgn"
	"whalesx/clients/notifier"
	"whalesx/clients/telegram"
	"whalesx/config"

	"go.uber.org/zap"
)

type Clients struct {
	Logger *zap.Logger

	Telegram  *telegram.TelegramClient
	Discord   *discord.DiscordClient
	Messenger notifier.Messenger // Combined messenger for all channels
	Gmgn      *gmgn.Client
}

func NewClients(logger *zap.Logger, cfg *config.Config) *Clients {
	telegramClient := telegram.NewTelegramClient(logger, cfg)
	discordClient := discord.NewDiscordClient(logger, cfg)

	// Reports go to the requesting Telegram chat and, when configured,
	// get mirrored into a fixed Discord channel.
	multi := notifier.NewMultiMessenger(telegramClient, discordClient)

	return &Clients{
		Logger:    logger,
		Telegram:  telegramClient,
		Discord:   discordClient,
		Messenger: multi,
		Gmgn:      gmgn.NewClient(logger, cfg),
	}
}
