// Package chromem backs the retrieval layer with an embedded vector
// store. Each search strategy maps to one collection; the legacy
// collection exists only when older ingests are carried over.
package chromem

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"github.com/lukebdev/termlink/internal/core"
)

// Embeddings are produced upstream and passed in explicitly. A document
// arriving without one is a programming error, so the collection-level
// embedding hook always refuses.
func noEmbed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("store does not embed, provide embeddings explicitly")
}

// Store implements core.VectorStore on an embedded chromem database.
type Store struct {
	db      *chromem.DB
	primary string
	legacy  string
}

// New opens a persistent store under dir, or an in-memory one when dir
// is empty. The primary collection is created eagerly; the legacy one is
// only ever attached to, never created.
func New(dir, primary, legacy string) (*Store, error) {
	var db *chromem.DB
	var err error
	if dir == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("open vector store: %w", err)
		}
	}
	if _, err := db.GetOrCreateCollection(primary, nil, noEmbed); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", primary, err)
	}
	return &Store{db: db, primary: primary, legacy: legacy}, nil
}

// Strategies returns the search order: primary first, legacy fallback.
func (s *Store) Strategies() []string {
	return []string{s.primary, s.legacy}
}

func (s *Store) Table() string {
	return s.primary
}

// Search runs a similarity query against the named collection.
func (s *Store) Search(ctx context.Context, strategy string, embedding []float32, matchCount int, minSimilarity float32) ([]core.RetrievalResult, error) {
	col := s.db.GetCollection(strategy, noEmbed)
	if col == nil {
		return nil, fmt.Errorf("collection %q not found", strategy)
	}

	n := col.Count()
	if n == 0 {
		return nil, nil
	}
	if matchCount > n {
		matchCount = n
	}

	hits, err := col.QueryEmbedding(ctx, embedding, matchCount, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", strategy, err)
	}

	results := make([]core.RetrievalResult, 0, len(hits))
	for _, h := range hits {
		if h.Similarity < minSimilarity {
			continue
		}
		results = append(results, core.RetrievalResult{
			Content: h.Content,
			Score:   h.Similarity,
		})
	}
	return results, nil
}

// Insert writes documents with their precomputed embeddings into the
// primary collection.
func (s *Store) Insert(ctx context.Context, docs []core.Document) (int, error) {
	col, err := s.db.GetOrCreateCollection(s.primary, nil, noEmbed)
	if err != nil {
		return 0, fmt.Errorf("open collection %q: %w", s.primary, err)
	}

	out := make([]chromem.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, chromem.Document{
			ID:        uuid.NewString(),
			Content:   d.Content,
			Embedding: d.Embedding,
		})
	}
	if err := col.AddDocuments(ctx, out, runtime.NumCPU()); err != nil {
		return 0, fmt.Errorf("add documents: %w", err)
	}
	return len(out), nil
}
