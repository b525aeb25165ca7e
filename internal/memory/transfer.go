package memory

import "context"

// ProjectExport is export_project's serialized payload: every ContextLock
// row for the project, plus its MemoryEntry audit log. Sessions are
// intentionally not included — Session rows live in the public catalog,
// not the project namespace (SPEC_FULL.md §4.2).
type ProjectExport struct {
	Locks   []ContextLock
	Entries []MemoryEntry
}

// ExportProject implements spec.md §4.4's export_project: serialize all
// contexts and metadata for a project.
func (c *Core) ExportProject(ctx context.Context, sessionID, explicitProject string) (ProjectExport, error) {
	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return ProjectExport{}, err
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return ProjectExport{}, err
	}
	defer conn.Release(ctx)

	lockRows, err := conn.Query(ctx,
		`SELECT id::text, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, embedding, locked_at, last_accessed, access_count
		 FROM context_locks`)
	if err != nil {
		return ProjectExport{}, err
	}
	locks := make([]ContextLock, len(lockRows))
	for i, row := range lockRows {
		l, err := rowToLock(row)
		if err != nil {
			return ProjectExport{}, err
		}
		locks[i] = l
	}

	entryRows, err := conn.Query(ctx, `SELECT id::text, category, content, metadata, created_at FROM memory_entries`)
	if err != nil {
		return ProjectExport{}, err
	}
	entries := make([]MemoryEntry, len(entryRows))
	for i, row := range entryRows {
		e, err := rowToEntry(row)
		if err != nil {
			return ProjectExport{}, err
		}
		entries[i] = e
	}

	return ProjectExport{Locks: locks, Entries: entries}, nil
}

// ImportProject implements spec.md §4.4's import_project: insert data under
// targetProject, preserving (label, version) uniqueness. A colliding
// (label, version) is skipped rather than aborting the whole import.
func (c *Core) ImportProject(ctx context.Context, sessionID, targetProject string, data ProjectExport) (int, error) {
	rec, err := c.ensureNamespace(ctx, sessionID, targetProject)
	if err != nil {
		return 0, err
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return 0, err
	}
	defer conn.Release(ctx)

	imported := 0
	for _, l := range data.Locks {
		metaJSON, err := encodeMetadata(l.Metadata)
		if err != nil {
			return imported, err
		}
		kcJSON, err := encodeStringSlice(l.KeyConcepts)
		if err != nil {
			return imported, err
		}

		affected, err := conn.Exec(ctx,
			`INSERT INTO context_locks (id, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, locked_at, last_accessed, access_count)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 ON CONFLICT (label, version) DO NOTHING`,
			newLockID(), l.SessionID, l.Label, l.Version, l.Content, l.ContentHash, l.Preview, kcJSON, l.Priority, metaJSON, l.LockedAt, l.LastAccessed, l.AccessCount)
		if err != nil {
			return imported, err
		}
		imported += int(affected)
	}

	for _, e := range data.Entries {
		metaJSON, err := encodeMetadata(e.Metadata)
		if err != nil {
			return imported, err
		}
		if _, err := conn.Exec(ctx,
			`INSERT INTO memory_entries (id, category, content, metadata, created_at) VALUES ($1, $2, $3, $4, $5)`,
			newEntryID(), e.Category, e.Content, metaJSON, e.CreatedAt); err != nil {
			return imported, err
		}
	}

	return imported, nil
}
