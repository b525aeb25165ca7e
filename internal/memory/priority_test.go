package memory

import "testing"

func TestDetectPriority(t *testing.T) {
	cases := []struct {
		content string
		want    string
	}{
		{"You must always validate input", PriorityAlwaysCheck},
		{"Critical path for checkout", PriorityImportant},
		{"Random note", PriorityReference},
		{"Never skip the migration step", PriorityAlwaysCheck},
		{"This is required before release", PriorityImportant},
	}
	for _, c := range cases {
		got := DetectPriority(c.content)
		if got != c.want {
			t.Errorf("DetectPriority(%q) = %q, want %q", c.content, got, c.want)
		}
	}
}

func TestIsValidPriority(t *testing.T) {
	for _, p := range ValidPriorities() {
		if !IsValidPriority(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if IsValidPriority("urgent") {
		t.Error("expected unknown priority to be invalid")
	}
}
