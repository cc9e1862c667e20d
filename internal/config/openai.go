package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/lukebdev/termlink/pkg/log"
)

// OpenAIConfig is optional: a missing key disables completions and
// embeddings without failing startup.
type OpenAIConfig struct {
	APIKey         string `env:"OPENAI_API_KEY"`
	BaseURL        string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`
	ChatModel      string `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingModel string `env:"OPENAI_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
}

func NewOpenAIConfig(ctx context.Context) *OpenAIConfig {
	c := &OpenAIConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse OpenAI config")
	}
	return c
}

func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}
