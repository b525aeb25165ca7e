package memory

import (
	"strings"
	"testing"
)

func TestDerivePreview_ShortContentUnchanged(t *testing.T) {
	if got := DerivePreview("hello world"); got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestDerivePreview_Empty(t *testing.T) {
	if got := DerivePreview(""); got != "" {
		t.Fatalf("expected empty preview, got %q", got)
	}
}

func TestDerivePreview_TruncatesAtWordBoundary(t *testing.T) {
	content := strings.Repeat("word ", 200)
	preview := DerivePreview(content)
	if len(preview) > PreviewMaxLen {
		t.Fatalf("preview too long: %d", len(preview))
	}
	if strings.HasSuffix(preview, " ") {
		t.Fatal("preview should not end with whitespace")
	}
	if !strings.HasSuffix(preview, "word") {
		t.Fatalf("expected truncation at a word boundary, got %q", preview[len(preview)-10:])
	}
}

func TestKeyConcepts_RanksByFrequency(t *testing.T) {
	content := "caching caching caching invalidation invalidation ttl"
	concepts := KeyConcepts(content, nil, 2)
	if len(concepts) != 2 {
		t.Fatalf("expected 2 concepts, got %v", concepts)
	}
	if concepts[0] != "caching" {
		t.Fatalf("expected caching first, got %v", concepts)
	}
}

func TestKeyConcepts_IncludesTags(t *testing.T) {
	concepts := KeyConcepts("short note", []string{"postgres", "schema"}, 10)
	found := map[string]bool{}
	for _, c := range concepts {
		found[c] = true
	}
	if !found["postgres"] || !found["schema"] {
		t.Fatalf("expected tags to be included, got %v", concepts)
	}
}

func TestKeyConcepts_ExcludesStopWords(t *testing.T) {
	concepts := KeyConcepts("this is the caching layer", nil, 10)
	for _, c := range concepts {
		if c == "the" || c == "is" || c == "this" {
			t.Fatalf("unexpected stop word in result: %v", concepts)
		}
	}
}
