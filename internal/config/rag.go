package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/lukebdev/termlink/pkg/log"
)

// RAGConfig covers the knowledge store and the privileged ingestion
// secret. An empty AdminToken fails ingestion closed; it never grants
// open access.
type RAGConfig struct {
	AdminToken  string `env:"ADMIN_TOKEN"`
	Table       string `env:"RAG_TABLE" envDefault:"documents"`
	LegacyTable string `env:"RAG_LEGACY_TABLE" envDefault:"kb_chunks"`
}

func NewRAGConfig(ctx context.Context) *RAGConfig {
	c := &RAGConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse RAG config")
	}
	return c
}
