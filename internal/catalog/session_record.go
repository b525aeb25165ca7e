package catalog

import (
	"time"

	"gorm.io/datatypes"
)

// PendingProject is the sentinel project binding spec.md §3/§4.3 describes:
// "no project selected yet". It gates every non-whitelisted tool.
const PendingProject = "__PENDING__"

// SessionRecord is the canonical row for a Session (spec.md §3). It lives in
// the public schema — see SPEC_FULL.md §4.2 for why Session cannot be
// per-project-namespace like ContextLock/MemoryEntry are.
type SessionRecord struct {
	ID             string `gorm:"primaryKey"`
	ProjectName    string `gorm:"not null;default:__PENDING__"`
	CreatedAt      time.Time
	LastActive     time.Time
	SessionSummary datatypes.JSON
}

func (SessionRecord) TableName() string { return "sessions" }
