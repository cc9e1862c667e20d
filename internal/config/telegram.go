package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/lukebdev/termlink/pkg/log"
)

// TelegramConfig is optional: without a token and chat id the bridge is
// disabled and traffic simply is not mirrored.
type TelegramConfig struct {
	Token  string `env:"TELEGRAM_TOKEN"`
	ChatID int64  `env:"TELEGRAM_CHAT_ID"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) Enabled() bool {
	return c.Token != "" && c.ChatID != 0
}
