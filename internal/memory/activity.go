package memory

import (
	"context"
	"fmt"
)

// GetAgentActivity is a supplemental read over memory_entries, grounded on
// the teacher's get_agent_activity tool — a thin audit trail over
// MemoryEntry (spec.md §3's "Used by handover retrieval and audit"),
// filterable by category and ordered most recent first.
func (c *Core) GetAgentActivity(ctx context.Context, sessionID, explicitProject, category string, limit int) ([]MemoryEntry, error) {
	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return nil, err
	}
	defer conn.Release(ctx)

	sql := `SELECT id::text, category, content, metadata, created_at FROM memory_entries`
	args := []any{}
	if category != "" {
		sql += " WHERE category = $1"
		args = append(args, category)
	}
	sql += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	entries := make([]MemoryEntry, len(rows))
	for i, row := range rows {
		e, err := rowToEntry(row)
		if err != nil {
			return nil, err
		}
		entries[i] = e
	}
	return entries, nil
}
