// Package embedclient wraps the embedding and LLM collaborators spec.md §6
// describes as external services: "embed(text) -> float[1024]" and
// "complete(prompt, model, temperature, max_tokens) -> text". Both are
// optional, swappable, and failures must never block a write — the Memory
// Core treats every call here as best-effort (spec.md §9 "Embedding
// optionality").
//
// Grounded on the teacher's internal/api/client.go net/http request shape
// (plain fmt.Errorf wrapping, no special HTTP logging) and on
// git4ruby-memvra's choice of sashabaranov/go-openai and
// liushuangls/go-anthropic/v2 as the concrete backends behind a narrow
// interface.
package embedclient

import (
	"context"

	"github.com/dementia-mcp/dementia/internal/config"
	"github.com/dementia-mcp/dementia/internal/engine"
)

// MaxInputChars bounds the text sent to the embedding service, per spec.md
// §6 ("Input length bounded (typical ≤1020 chars; callers pass preview, not
// raw content)").
const MaxInputChars = 1020

// Embedder produces vector embeddings for short text. Implementations must
// return an *engine.Error with Kind external_degraded, never block, on any
// failure — callers degrade to keyword search rather than fail the caller's
// operation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer runs a single stateless completion, used only by optional
// summarization tools (spec.md §6).
type Completer interface {
	Complete(ctx context.Context, prompt, model string, temperature float64, maxTokens int) (string, error)
}

// NewEmbedder returns the configured Embedder, or a no-op stub that always
// reports external_degraded when embedding is disabled.
func NewEmbedder(cfg config.EmbeddingConfig) Embedder {
	if !cfg.Enabled {
		return noopEmbedder{}
	}
	return newOpenAIEmbedder(cfg)
}

// NewCompleter returns the configured Completer, or a no-op stub when the
// LLM collaborator is disabled.
func NewCompleter(cfg config.LLMConfig) Completer {
	if !cfg.Enabled {
		return noopCompleter{}
	}
	return newAnthropicCompleter(cfg)
}

// boundInput truncates text to MaxInputChars, matching spec.md §6's input
// bound. Truncation happens on runes so multi-byte characters are never
// split mid-sequence.
func boundInput(text string) string {
	r := []rune(text)
	if len(r) <= MaxInputChars {
		return text
	}
	return string(r[:MaxInputChars])
}

type noopEmbedder struct{}

func (noopEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, engine.New(engine.KindExternalDegraded, "embedding service disabled")
}

func (noopEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, engine.New(engine.KindExternalDegraded, "embedding service disabled")
}

type noopCompleter struct{}

func (noopCompleter) Complete(context.Context, string, string, float64, int) (string, error) {
	return "", engine.New(engine.KindExternalDegraded, "llm service disabled")
}
