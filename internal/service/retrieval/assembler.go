package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/lukebdev/termlink/internal/core"
	"github.com/lukebdev/termlink/pkg/log"
)

const (
	defaultMatchCount    = 6
	defaultMinSimilarity = 0.3
)

// Assembler embeds a query, walks the store's ordered search strategies
// and reorders hits by language preference. Both the embedder and the
// store are optional: when either is missing, Assemble degrades to
// empty context instead of erroring.
type Assembler struct {
	embedder core.Embedder
	store    core.VectorStore
	subject  string
}

func NewAssembler(embedder core.Embedder, store core.VectorStore, subject string) *Assembler {
	return &Assembler{
		embedder: embedder,
		store:    store,
		subject:  subject,
	}
}

func (a *Assembler) Enabled() bool {
	return a != nil && a.embedder != nil && a.store != nil
}

// Assemble returns grounding context for a free-form query, or "" when
// retrieval is unavailable or finds nothing. Never returns an error:
// retrieval failure narrows functionality, it must not fail the command.
func (a *Assembler) Assemble(ctx context.Context, query, locale string) string {
	if !a.Enabled() {
		return ""
	}
	logger := log.FromCtx(ctx)

	embedding, err := a.embedder.Embed(ctx, ExpandPronouns(query, locale, a.subject))
	if err != nil {
		logger.Warn().Err(err).Msg("embedding failed, proceeding without context")
		return ""
	}

	results, strategy, err := a.search(ctx, embedding, defaultMatchCount, defaultMinSimilarity)
	if err != nil {
		logger.Warn().Err(err).Msg("all retrieval strategies failed, proceeding without context")
		return ""
	}
	if len(results) == 0 {
		return ""
	}

	results = StablePartition(results, locale, false)
	if len(results) > defaultMatchCount {
		results = results[:defaultMatchCount]
	}

	logger.Debug().Str("strategy", strategy).Int("results", len(results)).Msg("assembled grounding context")

	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("[#%d] %s", i+1, r.Content))
	}
	return strings.Join(parts, "\n\n")
}

// QueryParams shape a direct retrieval query.
type QueryParams struct {
	Query         string
	MatchCount    int
	MinSimilarity float32
	PreferLocale  string
	ExactLocale   bool
}

// Query runs the strategy sequence and reports which strategy served
// the request. Unlike Assemble, errors surface: the retrieval endpoint
// is diagnostic and its caller wants to see failures.
func (a *Assembler) Query(ctx context.Context, p QueryParams) ([]core.RetrievalResult, string, error) {
	if !a.Enabled() {
		return nil, "", fmt.Errorf("retrieval: %w", core.ErrUnavailable)
	}
	if strings.TrimSpace(p.Query) == "" {
		return nil, "", fmt.Errorf("query required: %w", core.ErrValidation)
	}
	if p.MatchCount <= 0 {
		p.MatchCount = 4
	}
	if p.MinSimilarity <= 0 {
		p.MinSimilarity = 0.5
	}

	embedding, err := a.embedder.Embed(ctx, p.Query)
	if err != nil {
		return nil, "", fmt.Errorf("embed query: %w", err)
	}

	results, strategy, err := a.search(ctx, embedding, p.MatchCount, p.MinSimilarity)
	if err != nil {
		return nil, "", err
	}

	if p.PreferLocale != "" {
		pref := core.LocaleEN
		if strings.ToLower(p.PreferLocale) == core.LocaleFI {
			pref = core.LocaleFI
		}
		results = StablePartition(results, pref, p.ExactLocale)
	}
	// Cap after reordering; never hand back more than asked for.
	if len(results) > p.MatchCount {
		results = results[:p.MatchCount]
	}
	return results, strategy, nil
}

// search tries each named strategy in order and stops at the first that
// answers. At most len(strategies) searches run per query; with the
// primary/legacy pair that is exactly two before degrading.
func (a *Assembler) search(ctx context.Context, embedding []float32, matchCount int, minSimilarity float32) ([]core.RetrievalResult, string, error) {
	var lastErr error
	for _, strategy := range a.store.Strategies() {
		results, err := a.store.Search(ctx, strategy, embedding, matchCount, minSimilarity)
		if err != nil {
			lastErr = err
			continue
		}
		return results, strategy, nil
	}
	return nil, "", fmt.Errorf("retrieval strategies exhausted: %w", lastErr)
}

// StablePartition moves locale-matching results ahead of the rest while
// preserving each bucket's original similarity-ranked order. Exact mode
// drops non-matching results instead of deprioritizing them.
func StablePartition(results []core.RetrievalResult, locale string, exact bool) []core.RetrievalResult {
	matching := make([]core.RetrievalResult, 0, len(results))
	rest := make([]core.RetrievalResult, 0, len(results))

	for _, r := range results {
		r.Lang = DetectLang(r.Content)
		if r.Lang == locale {
			matching = append(matching, r)
		} else {
			rest = append(rest, r)
		}
	}
	if exact {
		return matching
	}
	return append(matching, rest...)
}
