package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/dementia-mcp/dementia/internal/engine"
	"github.com/dementia-mcp/dementia/internal/session"
)

// HandoverStatus distinguishes the two handover paths spec.md §4.4
// describes.
const (
	HandoverCurrent  = "current"
	HandoverPackaged = "packaged"
)

// Handover is get_last_handover's response payload.
type Handover struct {
	Status   string
	HoursAgo float64
	Summary  session.Summary
	Entry    *MemoryEntry
}

// GetLastHandover implements spec.md §4.4's two-path lookup: the current
// session row if its last_active is within the configured cutoff, else the
// most recent packaged handover MemoryEntry.
func (c *Core) GetLastHandover(ctx context.Context, sessionID, explicitProject string) (Handover, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err == nil {
		age := time.Since(sess.LastActive)
		if age < c.handoverCutoff {
			return Handover{Status: HandoverCurrent, HoursAgo: age.Hours(), Summary: sess.SessionSummary}, nil
		}
	}

	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return Handover{}, err
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return Handover{}, err
	}
	defer conn.Release(ctx)

	rows, err := conn.Query(ctx,
		`SELECT id::text, category, content, metadata, created_at FROM memory_entries
		 WHERE category = $1 ORDER BY created_at DESC LIMIT 1`, CategoryHandover)
	if err != nil {
		return Handover{}, err
	}
	if len(rows) == 0 {
		return Handover{}, engine.New(engine.KindNotFound, "no handover available")
	}

	entry, err := rowToEntry(rows[0])
	if err != nil {
		return Handover{}, err
	}
	return Handover{Status: HandoverPackaged, HoursAgo: time.Since(entry.CreatedAt).Hours(), Entry: &entry}, nil
}

// Sleep implements spec.md §4.4's sleep: write a structured summary as a
// handover MemoryEntry and update the session's own summary field.
func (c *Core) Sleep(ctx context.Context, sessionID, explicitProject string, summary session.Summary) error {
	rec, err := c.ensureNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return err
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return err
	}
	defer conn.Release(ctx)

	metadata := map[string]any{
		"work_done":         summary.WorkDone,
		"tools_used":        summary.ToolsUsed,
		"next_steps":        summary.NextSteps,
		"important_context": summary.ImportantContext,
	}
	content := fmt.Sprintf("session %s handover: %d work items, %d next steps", sessionID, len(summary.WorkDone), len(summary.NextSteps))
	if err := recordEntry(ctx, conn, CategoryHandover, content, metadata); err != nil {
		return err
	}

	return c.sessions.UpdateSummary(ctx, sessionID, summary)
}

// WakeUp implements spec.md §4.4's wake_up: load and present the prior
// handover plus current session state, reusing GetLastHandover.
func (c *Core) WakeUp(ctx context.Context, sessionID, explicitProject string) (Handover, error) {
	return c.GetLastHandover(ctx, sessionID, explicitProject)
}
