package memory

import (
	"regexp"
	"strings"
)

// MaxProjectNameLength is the truncation bound spec.md §4.4 sets for
// sanitized project names.
const MaxProjectNameLength = 32

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	leadTrail = regexp.MustCompile(`^_+|_+$`)
)

// Sanitize derives a namespace-safe name from a user-supplied project name:
// lowercase, non-[a-z0-9] runs collapsed to a single underscore, leading and
// trailing underscores stripped, truncated to MaxProjectNameLength. Callers
// must treat an empty result as invalid_project_name (spec.md §4.4).
//
// Sanitize is idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(name string) string {
	out := strings.ToLower(name)
	out = nonAlnum.ReplaceAllString(out, "_")
	out = leadTrail.ReplaceAllString(out, "")
	if len(out) > MaxProjectNameLength {
		out = out[:MaxProjectNameLength]
		out = strings.TrimRight(out, "_")
	}
	return out
}
