package memory

import "strings"

// Priority levels for a ContextLock (spec.md §3).
const (
	PriorityAlwaysCheck = "always_check"
	PriorityImportant   = "important"
	PriorityReference   = "reference"
)

// ValidPriorities returns every accepted priority value.
func ValidPriorities() []string {
	return []string{PriorityAlwaysCheck, PriorityImportant, PriorityReference}
}

// IsValidPriority reports whether p is one of ValidPriorities.
func IsValidPriority(p string) bool {
	for _, v := range ValidPriorities() {
		if p == v {
			return true
		}
	}
	return false
}

// alwaysCheckKeywords and importantKeywords are the token tables spec.md
// §4.4 step 4 names explicitly. Retargeted from the teacher's
// internal/mcp/memory_type.go memory-*type* classifier to context
// *priority* classification, keeping the same "first keyword table that
// matches wins" shape.
var alwaysCheckKeywords = []string{"always", "never", "must"}
var importantKeywords = []string{"important", "critical", "required"}

// DetectPriority auto-classifies content when the caller supplies no
// explicit priority (spec.md §4.4 step 4): presence of "always"/"never"/
// "must" wins always_check; "important"/"critical"/"required" wins
// important; otherwise reference.
func DetectPriority(content string) string {
	lower := strings.ToLower(content)

	for _, kw := range alwaysCheckKeywords {
		if strings.Contains(lower, kw) {
			return PriorityAlwaysCheck
		}
	}
	for _, kw := range importantKeywords {
		if strings.Contains(lower, kw) {
			return PriorityImportant
		}
	}
	return PriorityReference
}
