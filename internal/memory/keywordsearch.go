package memory

import (
	"sort"
	"strings"
)

// Relevance score contributions for search_contexts (spec.md §4.4): exact
// label match weighs highest, then key-concept overlap, then content, then
// preview. Contributions sum; ties break by last_accessed (caller's job,
// since that's a storage-layer timestamp this package doesn't carry).
const (
	scoreLabelMatch      = 1.0
	scoreKeyConceptMatch = 0.7
	scoreContentMatch    = 0.5
	scorePreviewMatch    = 0.3
)

// SearchableLock is the subset of a ContextLock row search_contexts' keyword
// fallback needs to score — decoupled from any storage representation so
// this package stays free of a database dependency.
type SearchableLock struct {
	Label       string
	Content     string
	Preview     string
	KeyConcepts []string
}

// Scored pairs a SearchableLock with its computed relevance.
type Scored struct {
	Lock  SearchableLock
	Score float64
}

// ScoreKeywordMatch implements spec.md §4.4's search_contexts substring
// scoring: exact label match 1.0, key-concept match 0.7, content 0.5,
// preview 0.3, contributions summed. Returns 0 when query matches nowhere.
func ScoreKeywordMatch(query string, lock SearchableLock) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	var score float64
	if strings.ToLower(lock.Label) == q {
		score += scoreLabelMatch
	}
	for _, kc := range lock.KeyConcepts {
		if strings.Contains(strings.ToLower(kc), q) {
			score += scoreKeyConceptMatch
			break
		}
	}
	if strings.Contains(strings.ToLower(lock.Content), q) {
		score += scoreContentMatch
	}
	if strings.Contains(strings.ToLower(lock.Preview), q) {
		score += scorePreviewMatch
	}
	return score
}

// RankByKeyword scores every candidate against query and returns the hits
// with a non-zero score, sorted by descending score. Stable w.r.t. input
// order for equal scores, so a caller that pre-sorts candidates by
// last_accessed gets that as the tie-break spec.md §4.4 names.
func RankByKeyword(query string, candidates []SearchableLock) []Scored {
	hits := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if s := ScoreKeywordMatch(query, c); s > 0 {
			hits = append(hits, Scored{Lock: c, Score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits
}

// tokenize splits text into a set of lowercase words of length > 1,
// stripping punctuation — identical shape to the teacher's
// internal/mcp/similarity.go tokenize, reused here for check_contexts'
// prominent-term intersection rather than memory-merge similarity.
func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	set := make(map[string]struct{}, len(fields))
	for _, w := range fields {
		if len(w) > 1 {
			set[w] = struct{}{}
		}
	}
	return set
}

// IntersectsKeyConcepts reports whether any of keyConcepts appears among
// text's tokens — the check_contexts relevance test spec.md §4.4 describes
// ("key_concepts intersect prominent terms of text").
func IntersectsKeyConcepts(text string, keyConcepts []string) bool {
	tokens := tokenize(text)
	for _, kc := range keyConcepts {
		if _, ok := tokens[strings.ToLower(kc)]; ok {
			return true
		}
	}
	return false
}
