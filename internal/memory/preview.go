package memory

import (
	"regexp"
	"sort"
	"strings"
)

// PreviewMaxLen is the ~500-char bound spec.md §3/§4.4 sets for a derived
// preview.
const PreviewMaxLen = 500

// DerivePreview truncates content to at most PreviewMaxLen characters at a
// word boundary (spec.md §4.4 step 3). Empty content previews to "" (spec.md
// §8 boundary behavior).
func DerivePreview(content string) string {
	if len(content) <= PreviewMaxLen {
		return content
	}
	cut := content[:PreviewMaxLen]
	if idx := strings.LastIndexAny(cut, " \t\n"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \t\n")
}

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopWords are excluded from key-concept extraction; short, highly common
// connective words carry no topical signal.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "on": true, "is": true, "are": true, "for": true,
	"with": true, "this": true, "that": true, "it": true, "be": true,
	"was": true, "were": true, "at": true, "by": true, "as": true,
}

// KeyConcepts returns up to limit distinct, frequency-ranked terms from
// content and tags (spec.md §4.4 step 3: "top terms from content+tags").
// Ties break by first occurrence, keeping the result deterministic.
func KeyConcepts(content string, tags []string, limit int) []string {
	counts := make(map[string]int)
	order := make(map[string]int)
	pos := 0

	record := func(word string) {
		if len(word) < 3 || stopWords[word] {
			return
		}
		if _, seen := order[word]; !seen {
			order[word] = pos
			pos++
		}
		counts[word]++
	}

	for _, w := range wordPattern.FindAllString(strings.ToLower(content), -1) {
		record(w)
	}
	for _, tag := range tags {
		for _, w := range wordPattern.FindAllString(strings.ToLower(tag), -1) {
			record(w)
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return order[words[i]] < order[words[j]]
	})

	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}
