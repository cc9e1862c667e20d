package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/lukebdev/termlink/pkg/log"
)

type AppConfig struct {
	Host        string `env:"TERMLINK_HOST" envDefault:"0.0.0.0"`
	Port        int    `env:"TERMLINK_PORT" envDefault:"5000"`
	RuntimePath string `env:"TERMLINK_RUNTIME_PATH" envDefault:".termlink"`
	Environment string `env:"TERMLINK_ENV" envDefault:"development"`

	// SubjectName is the person the terminal answers questions about.
	// Used for pronoun disambiguation and the completion persona.
	SubjectName string `env:"TERMLINK_SUBJECT" envDefault:"Luke"`

	DefaultLocale string `env:"TERMLINK_DEFAULT_LOCALE" envDefault:"en"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse app config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "termlink.db")
}

func (c AppConfig) GetVectorPath() string {
	return filepath.Join(c.RuntimePath, "vectors")
}
