package memory

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Alpha-1", "alpha_1"},
		{"collapses runs", "a   b---c", "a_b_c"},
		{"strips leading trailing", "__hello__", "hello"},
		{"empty stays empty", "", ""},
		{"symbols only is invalid", "###", ""},
		{"truncates to 32", "this_is_a_very_long_project_name_indeed", "this_is_a_very_long_project_name"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Sanitize(c.in)
			if got != c.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{"Alpha-1", "__weird__", "", "this_is_a_very_long_project_name_indeed", "MiXeD Case!!"}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Fatalf("Sanitize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestSanitize_MaxLength(t *testing.T) {
	long := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	got := Sanitize(long)
	if len(got) > MaxProjectNameLength {
		t.Fatalf("Sanitize result too long: %d chars", len(got))
	}
}
