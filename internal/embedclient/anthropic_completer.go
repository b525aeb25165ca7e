package embedclient

import (
	"context"
	"net/http"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/dementia-mcp/dementia/internal/config"
	"github.com/dementia-mcp/dementia/internal/engine"
)

// anthropicCompleter backs the optional LLM summarization tools (spec.md
// §6's "complete(prompt, model, temperature, max_tokens) -> text",
// stateless).
type anthropicCompleter struct {
	client       *anthropic.Client
	defaultModel anthropic.Model
}

func newAnthropicCompleter(cfg config.LLMConfig) *anthropicCompleter {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	opts := []anthropic.ClientOption{anthropic.WithHTTPClient(httpClient)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	model := anthropic.Model(cfg.Model)
	if cfg.Model == "" {
		model = anthropic.ModelClaude3Dot5SonnetLatest
	}

	return &anthropicCompleter{
		client:       anthropic.NewClient(cfg.APIKey, opts...),
		defaultModel: model,
	}
}

// Complete sends a single-turn user message and returns its text content.
func (c *anthropicCompleter) Complete(ctx context.Context, prompt, model string, temperature float64, maxTokens int) (string, error) {
	m := c.defaultModel
	if model != "" {
		m = anthropic.Model(model)
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       m,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", engine.Wrap(engine.KindExternalDegraded, "completion request failed", err)
	}
	if len(resp.Content) == 0 {
		return "", engine.New(engine.KindExternalDegraded, "completion returned no content")
	}
	return resp.Content[0].GetText(), nil
}
