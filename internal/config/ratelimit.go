package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/lukebdev/termlink/pkg/log"
)

type RateLimitConfig struct {
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	Max    int           `env:"RATE_LIMIT_MAX" envDefault:"120"`

	AIWindow time.Duration `env:"RATE_LIMIT_AI_WINDOW" envDefault:"1m"`
	AIMax    int           `env:"RATE_LIMIT_AI_MAX" envDefault:"20"`

	SweepInterval time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL" envDefault:"5m"`
}

func NewRateLimitConfig(ctx context.Context) *RateLimitConfig {
	c := &RateLimitConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse rate limit config")
	}
	return c
}
