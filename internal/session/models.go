// Package session implements the Session Store (spec.md §4.2) and Session
// Middleware (spec.md §4.3): session lifecycle and the per-request gate
// that resolves a stable session id and enforces project selection before
// dispatch.
package session

import "time"

// Summary is the structured handover payload spec.md §3 describes for
// session_summary: work_done[], tools_used[], next_steps[], and a free-form
// important_context map.
type Summary struct {
	WorkDone         []string          `json:"work_done,omitempty"`
	ToolsUsed        []string          `json:"tools_used,omitempty"`
	NextSteps        []string          `json:"next_steps,omitempty"`
	ImportantContext map[string]string `json:"important_context,omitempty"`
}

// Session is the domain view of a Session row (spec.md §3), independent of
// the gorm storage representation in internal/catalog.
type Session struct {
	ID             string
	ProjectName    string
	CreatedAt      time.Time
	LastActive     time.Time
	SessionSummary Summary
}

// IsPending reports whether no project has been selected for this session
// yet (the __PENDING__ sentinel, spec.md §3/§4.3).
func (s Session) IsPending() bool {
	return s.ProjectName == "" || s.ProjectName == PendingProject
}
