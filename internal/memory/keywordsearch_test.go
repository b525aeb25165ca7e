package memory

import "testing"

func TestScoreKeywordMatch_ExactLabel(t *testing.T) {
	lock := SearchableLock{Label: "auth-flow", Content: "unrelated", Preview: "unrelated"}
	if got := ScoreKeywordMatch("auth-flow", lock); got != scoreLabelMatch {
		t.Fatalf("got %v want %v", got, scoreLabelMatch)
	}
}

func TestScoreKeywordMatch_SumsContributions(t *testing.T) {
	lock := SearchableLock{
		Label:       "other",
		Content:     "the checkout flow validates payment",
		Preview:     "checkout flow summary",
		KeyConcepts: []string{"checkout", "payment"},
	}
	got := ScoreKeywordMatch("checkout", lock)
	want := scoreKeyConceptMatch + scoreContentMatch + scorePreviewMatch
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestScoreKeywordMatch_NoMatch(t *testing.T) {
	lock := SearchableLock{Label: "a", Content: "b", Preview: "c"}
	if got := ScoreKeywordMatch("zzz", lock); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestRankByKeyword_OrdersDescending(t *testing.T) {
	candidates := []SearchableLock{
		{Label: "weak", Content: "mentions checkout once"},
		{Label: "checkout", Content: "checkout checkout"},
	}
	hits := RankByKeyword("checkout", candidates)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Lock.Label != "checkout" {
		t.Fatalf("expected exact label match to rank first, got %v", hits[0].Lock.Label)
	}
}

func TestIntersectsKeyConcepts(t *testing.T) {
	if !IntersectsKeyConcepts("about to touch the payment gateway", []string{"payment", "refund"}) {
		t.Fatal("expected intersection to be found")
	}
	if IntersectsKeyConcepts("totally unrelated text", []string{"payment", "refund"}) {
		t.Fatal("expected no intersection")
	}
}
