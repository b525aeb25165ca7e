package embedclient

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dementia-mcp/dementia/internal/config"
	"github.com/dementia-mcp/dementia/internal/engine"
)

// openAIEmbedder calls an OpenAI-compatible embeddings endpoint. BaseURL is
// configurable so the same client works against OpenAI itself or any
// OpenAI-compatible embedding gateway.
type openAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func newOpenAIEmbedder(cfg config.EmbeddingConfig) *openAIEmbedder {
	oaCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oaCfg.BaseURL = cfg.BaseURL
	}
	oaCfg.HTTPClient.Timeout = cfg.Timeout

	model := openai.EmbeddingModel(cfg.Model)
	if cfg.Model == "" {
		model = openai.AdaEmbeddingV2
	}

	return &openAIEmbedder{
		client: openai.NewClientWithConfig(oaCfg),
		model:  model,
	}
}

// Embed implements spec.md §6's embed(text) -> float[1024] contract for a
// single input. Failure is surfaced as external_degraded; it never blocks a
// write (spec.md §9).
func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch implements embed_batch(texts) -> float[1024][].
func (e *openAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	bounded := make([]string, len(texts))
	for i, t := range texts {
		bounded[i] = boundInput(t)
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: bounded,
		Model: e.model,
	})
	if err != nil {
		return nil, engine.Wrap(engine.KindExternalDegraded, "embedding request failed", err)
	}
	if len(resp.Data) != len(bounded) {
		return nil, engine.New(engine.KindExternalDegraded, fmt.Sprintf("embedding response size mismatch: got %d, want %d", len(resp.Data), len(bounded)))
	}

	out := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		out[d.Index] = d.Embedding
	}
	return out, nil
}
