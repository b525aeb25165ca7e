package embedclient

import (
	"context"
	"testing"

	"github.com/dementia-mcp/dementia/internal/config"
	"github.com/dementia-mcp/dementia/internal/engine"
)

func TestNewEmbedder_DisabledReturnsNoop(t *testing.T) {
	e := NewEmbedder(config.EmbeddingConfig{Enabled: false})
	_, err := e.Embed(context.Background(), "hello")
	if engine.KindOf(err) != engine.KindExternalDegraded {
		t.Fatalf("expected external_degraded, got %v", err)
	}
}

func TestNewCompleter_DisabledReturnsNoop(t *testing.T) {
	c := NewCompleter(config.LLMConfig{Enabled: false})
	_, err := c.Complete(context.Background(), "prompt", "", 0, 0)
	if engine.KindOf(err) != engine.KindExternalDegraded {
		t.Fatalf("expected external_degraded, got %v", err)
	}
}

func TestBoundInput_TruncatesLongText(t *testing.T) {
	long := make([]rune, MaxInputChars+500)
	for i := range long {
		long[i] = 'a'
	}
	got := boundInput(string(long))
	if len([]rune(got)) != MaxInputChars {
		t.Fatalf("expected %d runes, got %d", MaxInputChars, len([]rune(got)))
	}
}

func TestBoundInput_ShortTextUnchanged(t *testing.T) {
	if got := boundInput("short"); got != "short" {
		t.Fatalf("got %q", got)
	}
}
