package llm

import (
	"context"
	"fmt"

	"github.com/lukebdev/termlink/internal/core"
)

// OpenAI serves both completion and embedding requests against the
// OpenAI HTTP API, or any compatible endpoint via a custom base URL.
type OpenAI struct {
	baseProvider
	chatModel      string
	embeddingModel string
}

func NewOpenAI(baseURL, apiKey, chatModel, embeddingModel string) *OpenAI {
	return &OpenAI{
		baseProvider:   newBaseProvider(baseURL, apiKey),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
	}
}

func (o *OpenAI) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	payload := map[string]any{
		"model":       o.chatModel,
		"messages":    req.Messages,
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
	}

	resp, err := o.doRequest(ctx, "POST", "/v1/chat/completions", payload)
	if err != nil {
		return "", fmt.Errorf("completion: %w: %w", core.ErrProvider, err)
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := readJSON(resp, &apiResp); err != nil {
		return "", fmt.Errorf("completion: %w: %w", core.ErrProvider, err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("completion: no choices returned: %w", core.ErrProvider)
	}
	return apiResp.Choices[0].Message.Content, nil
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	payload := map[string]any{
		"model": o.embeddingModel,
		"input": texts,
	}

	resp, err := o.doRequest(ctx, "POST", "/v1/embeddings", payload)
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w: %w", core.ErrProvider, err)
	}

	var apiResp struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := readJSON(resp, &apiResp); err != nil {
		return nil, fmt.Errorf("embeddings: %w: %w", core.ErrProvider, err)
	}
	if len(apiResp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs: %w", len(apiResp.Data), len(texts), core.ErrProvider)
	}

	out := make([][]float32, len(texts))
	for _, d := range apiResp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embeddings: index %d out of range: %w", d.Index, core.ErrProvider)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}
