package memory

import "testing"

func TestNextMinor_FirstVersion(t *testing.T) {
	v, branched, from := nextMinor(nil, "")
	if v.String() != "1.0" || branched || from != "" {
		t.Fatalf("got %v branched=%v from=%q", v, branched, from)
	}
}

func TestNextMinor_Progression(t *testing.T) {
	existing := []string{"1.0"}
	v, _, _ := nextMinor(existing, "")
	if v.String() != "1.1" {
		t.Fatalf("expected 1.1, got %v", v)
	}

	existing = []string{"1.0", "1.1"}
	v, _, _ = nextMinor(existing, "")
	if v.String() != "1.2" {
		t.Fatalf("expected 1.2, got %v", v)
	}
}

func TestNextMinor_BranchFromOlderVersion(t *testing.T) {
	// spec.md §8 scenario 2: branching from 1.0 while 1.1 and 1.2 already
	// exist must not collide with 1.1 — it continues to increment under
	// the highest minor already present in the 1.x branch, landing on 1.3.
	existing := []string{"1.0", "1.1", "1.2"}
	v, branched, from := nextMinor(existing, "1.0")
	if !branched {
		t.Fatal("expected branch flag set")
	}
	if from != "1.0" {
		t.Fatalf("expected branched_from 1.0, got %q", from)
	}
	if v.String() != "1.3" {
		t.Fatalf("expected non-colliding continuation at 1.3, got %v", v)
	}
}

func TestNextMinor_BranchFromLatestIsNotFlagged(t *testing.T) {
	existing := []string{"1.0", "1.1"}
	v, branched, _ := nextMinor(existing, "1.1")
	if branched {
		t.Fatal("branching from the latest version should not be flagged")
	}
	if v.String() != "1.2" {
		t.Fatalf("expected 1.2, got %v", v)
	}
}

func TestParseVersion(t *testing.T) {
	v := parseVersion("3.7")
	if v.major != 3 || v.minor != 7 {
		t.Fatalf("parseVersion(3.7) = %+v", v)
	}
}

func TestVersionLess(t *testing.T) {
	if !(version{1, 0}).less(version{1, 1}) {
		t.Fatal("1.0 should be less than 1.1")
	}
	if !(version{1, 9}).less(version{2, 0}) {
		t.Fatal("1.9 should be less than 2.0")
	}
	if (version{2, 0}).less(version{1, 9}) {
		t.Fatal("2.0 should not be less than 1.9")
	}
}
