package memory

import (
	"context"

	"github.com/dementia-mcp/dementia/internal/engine"
)

// RecallContext implements spec.md §4.4's recall_context: resolve project,
// select the latest or an exact version, touch access tracking, and return
// the row. Missing -> not_found.
func (c *Core) RecallContext(ctx context.Context, sessionID, explicitProject, topic, version string) (ContextLock, error) {
	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return ContextLock{}, err
	}
	if version == "" {
		version = "latest"
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return ContextLock{}, err
	}
	defer conn.Release(ctx)

	return recallWithConn(ctx, conn, topic, version)
}

func recallWithConn(ctx context.Context, conn interface {
	Query(ctx context.Context, sql string, args ...any) ([]map[string]any, error)
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}, topic, version string) (ContextLock, error) {
	var (
		rows []map[string]any
		err  error
	)
	if version == "latest" {
		rows, err = conn.Query(ctx,
			`SELECT id::text, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, embedding, locked_at, last_accessed, access_count
			 FROM context_locks WHERE label = $1
			 ORDER BY string_to_array(version, '.')::int[] DESC LIMIT 1`, topic)
	} else {
		rows, err = conn.Query(ctx,
			`SELECT id::text, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, embedding, locked_at, last_accessed, access_count
			 FROM context_locks WHERE label = $1 AND version = $2`, topic, version)
	}
	if err != nil {
		return ContextLock{}, err
	}
	if len(rows) == 0 {
		return ContextLock{}, engine.New(engine.KindNotFound, "context not found")
	}

	lock, err := rowToLock(rows[0])
	if err != nil {
		return ContextLock{}, err
	}

	if _, err := conn.Exec(ctx,
		`UPDATE context_locks SET last_accessed = now(), access_count = access_count + 1 WHERE id = $1`,
		lock.ID); err != nil {
		return ContextLock{}, err
	}
	lock.AccessCount++

	return lock, nil
}
