package core

import "context"

// Embedder turns text into vectors via a remote embedding service.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionRequest is a single prompt/response exchange with the
// generative provider. No tool loop, no streaming.
type CompletionRequest struct {
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

// ChatProvider produces a generative completion.
type ChatProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// VectorStore is the vector-capable store behind retrieval. Strategies
// returns the ordered list of named search strategies to try in sequence.
type VectorStore interface {
	Search(ctx context.Context, strategy string, embedding []float32, matchCount int, minSimilarity float32) ([]RetrievalResult, error)
	Insert(ctx context.Context, docs []Document) (int, error)
	Strategies() []string
	Table() string
}

// Notifier delivers a best-effort, one-way message to the operator
// channel, tagged with the conversation it came from so the operator
// can answer it. Callers decide whether a send failure matters.
type Notifier interface {
	Notify(ctx context.Context, conversationID, locale, text string) error
}
