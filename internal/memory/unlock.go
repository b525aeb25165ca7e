package memory

import (
	"context"
	"fmt"

	"github.com/dementia-mcp/dementia/internal/engine"
)

// UnlockResult is unlock_context's response payload.
type UnlockResult struct {
	Archived int
	Affected []LabelVersion
}

// LabelVersion identifies one (label, version) pair.
type LabelVersion struct {
	Label   string
	Version string
}

// UnlockContext implements spec.md §4.4's unlock_context: gather matching
// rows, refuse to delete an always_check row without force, archive (if
// requested) then delete. Returns the count and keys affected.
func (c *Core) UnlockContext(ctx context.Context, sessionID, explicitProject, topic, version string, force, archive bool) (UnlockResult, error) {
	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return UnlockResult{}, err
	}
	if version == "" {
		version = "all"
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return UnlockResult{}, err
	}
	defer conn.Release(ctx)

	var rows []map[string]any
	if version == "all" {
		rows, err = conn.Query(ctx,
			`SELECT id::text, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, locked_at, last_accessed, access_count
			 FROM context_locks WHERE label = $1`, topic)
	} else {
		rows, err = conn.Query(ctx,
			`SELECT id::text, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, locked_at, last_accessed, access_count
			 FROM context_locks WHERE label = $1 AND version = $2`, topic, version)
	}
	if err != nil {
		return UnlockResult{}, err
	}
	if len(rows) == 0 {
		return UnlockResult{}, engine.New(engine.KindNotFound, "context not found")
	}

	locks := make([]ContextLock, len(rows))
	for i, row := range rows {
		l, err := rowToLock(row)
		if err != nil {
			return UnlockResult{}, err
		}
		locks[i] = l
		if l.Priority == PriorityAlwaysCheck && !force {
			return UnlockResult{}, engine.New(engine.KindConfirmationRequired,
				fmt.Sprintf("%q version %s is always_check; pass force=true to unlock", l.Label, l.Version))
		}
	}

	if archive {
		for _, l := range locks {
			metaJSON, err := encodeMetadata(l.Metadata)
			if err != nil {
				return UnlockResult{}, err
			}
			kcJSON, err := encodeStringSlice(l.KeyConcepts)
			if err != nil {
				return UnlockResult{}, err
			}
			if _, err := conn.Exec(ctx,
				`INSERT INTO context_archives (id, original_id, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, locked_at, last_accessed, access_count, deleted_at, delete_reason)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), $15)`,
				newEntryID(), l.ID, l.SessionID, l.Label, l.Version, l.Content, l.ContentHash, l.Preview, kcJSON, l.Priority, metaJSON, l.LockedAt, l.LastAccessed, l.AccessCount, "unlock_context"); err != nil {
				return UnlockResult{}, err
			}
		}
	}

	affected := make([]LabelVersion, len(locks))
	for i, l := range locks {
		affected[i] = LabelVersion{Label: l.Label, Version: l.Version}
	}

	var deleted int64
	if version == "all" {
		deleted, err = conn.Exec(ctx, `DELETE FROM context_locks WHERE label = $1`, topic)
	} else {
		deleted, err = conn.Exec(ctx, `DELETE FROM context_locks WHERE label = $1 AND version = $2`, topic, version)
	}
	if err != nil {
		return UnlockResult{}, err
	}

	if err := recordEntry(ctx, conn, CategoryDecision, fmt.Sprintf("unlocked %q (%d versions)", topic, deleted), map[string]any{"label": topic, "count": deleted}); err != nil {
		return UnlockResult{}, err
	}

	return UnlockResult{Archived: int(deleted), Affected: affected}, nil
}
