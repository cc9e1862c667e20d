package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/lukebdev/termlink/internal/core"
	"github.com/lukebdev/termlink/pkg/retry"
)

// Ingestor writes curated content into the vector store. Privileged,
// low-volume path: embedding calls are retried, unlike the interactive
// query path which degrades instead.
type Ingestor struct {
	embedder   core.Embedder
	store      core.VectorStore
	translator core.ChatProvider
	retrier    *retry.Retrier
}

func NewIngestor(embedder core.Embedder, store core.VectorStore, translator core.ChatProvider) *Ingestor {
	return &Ingestor{
		embedder:   embedder,
		store:      store,
		translator: translator,
		retrier:    retry.NewDefaultRetrier(),
	}
}

func (in *Ingestor) Enabled() bool {
	return in != nil && in.embedder != nil && in.store != nil
}

// Ingest embeds and stores the given contents, returning how many rows
// landed and in which table.
func (in *Ingestor) Ingest(ctx context.Context, contents []string) (int, string, error) {
	if !in.Enabled() {
		return 0, "", fmt.Errorf("ingestion: %w", core.ErrUnavailable)
	}
	if len(contents) == 0 {
		return 0, "", fmt.Errorf("items required: %w", core.ErrValidation)
	}
	for _, c := range contents {
		if strings.TrimSpace(c) == "" {
			return 0, "", fmt.Errorf("empty content item: %w", core.ErrValidation)
		}
	}

	var embeddings [][]float32
	err := in.retrier.Do(ctx, func() error {
		var embErr error
		embeddings, embErr = in.embedder.EmbedBatch(ctx, contents)
		return embErr
	})
	if err != nil {
		return 0, "", fmt.Errorf("embed items: %w", err)
	}
	if len(embeddings) != len(contents) {
		return 0, "", fmt.Errorf("embedding count mismatch: %w", core.ErrProvider)
	}

	docs := make([]core.Document, len(contents))
	for i, c := range contents {
		docs[i] = core.Document{Content: c, Embedding: embeddings[i]}
	}

	inserted, err := in.store.Insert(ctx, docs)
	if err != nil {
		return 0, "", fmt.Errorf("insert documents: %w", err)
	}
	return inserted, in.store.Table(), nil
}

// BilingualIngest translates the text to the other supported locale and
// stores both variants with their language prefix tags.
func (in *Ingestor) BilingualIngest(ctx context.Context, text, sourceLocale string) (int, string, []string, error) {
	if !in.Enabled() || in.translator == nil {
		return 0, "", nil, fmt.Errorf("bilingual ingestion: %w", core.ErrUnavailable)
	}
	raw := strings.TrimSpace(text)
	if raw == "" {
		return 0, "", nil, fmt.Errorf("text required: %w", core.ErrValidation)
	}

	src := core.LocaleEN
	if strings.ToLower(sourceLocale) == core.LocaleFI {
		src = core.LocaleFI
	}
	target := "Finnish"
	if src == core.LocaleFI {
		target = "English"
	}

	translated, err := in.translator.Complete(ctx, core.CompletionRequest{
		Temperature: 0.2,
		MaxTokens:   300,
		Messages: []core.ChatMessage{
			{Role: core.RoleSystem, Content: "Translate the following text to " + target + ". Output ONLY the translation, no quotes, no commentary."},
			{Role: core.RoleUser, Content: raw},
		},
	})
	if err != nil {
		return 0, "", nil, fmt.Errorf("translate: %w", err)
	}
	translated = strings.TrimSpace(translated)
	if translated == "" {
		return 0, "", nil, fmt.Errorf("empty translation: %w", core.ErrProvider)
	}

	enText, fiText := raw, translated
	if src == core.LocaleFI {
		enText, fiText = translated, raw
	}

	inserted, table, err := in.Ingest(ctx, []string{"EN: " + enText, "FI: " + fiText})
	if err != nil {
		return 0, "", nil, err
	}
	return inserted, table, []string{core.LocaleEN, core.LocaleFI}, nil
}
