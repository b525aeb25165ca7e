package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/dementia-mcp/dementia/internal/engine"
)

// maxVersionRetries bounds the "retry with next minor" loop spec.md §4.4
// step 6 and §7 (version_collision) describe for a concurrent insert race
// on the same (label, version).
const maxVersionRetries = 5

// LockResult is lock_context's response payload (spec.md §4.4).
type LockResult struct {
	Label        string
	Version      string
	Hash         string
	Preview      string
	Priority     string
	KeyConcepts  []string
	Branched     bool
	BranchedFrom string
	Embedded     bool
}

// LockContext implements spec.md §4.4's lock_context.
func (c *Core) LockContext(ctx context.Context, sessionID, explicitProject, content, topic string, tags []string, priority, versionBase string) (LockResult, error) {
	rec, err := c.ensureNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return LockResult{}, err
	}
	if strings.TrimSpace(topic) == "" {
		return LockResult{}, engine.New(engine.KindValidation, "topic is required")
	}

	if priority == "" {
		priority = DetectPriority(content)
	} else if !IsValidPriority(priority) {
		return LockResult{}, engine.New(engine.KindValidation, "invalid_priority")
	}

	hash := ContentHash(content)
	preview := DerivePreview(content)
	keyConcepts := KeyConcepts(content, tags, 10)

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return LockResult{}, err
	}
	defer conn.Release(ctx)

	rows, err := conn.Query(ctx, `SELECT version FROM context_locks WHERE label = $1`, topic)
	if err != nil {
		return LockResult{}, err
	}
	existing := make([]string, len(rows))
	for i, row := range rows {
		existing[i] = asString(row["version"])
	}

	metaJSON, err := encodeMetadata(map[string]any{"tags": tags})
	if err != nil {
		return LockResult{}, err
	}
	kcJSON, err := encodeStringSlice(keyConcepts)
	if err != nil {
		return LockResult{}, err
	}

	var (
		result LockResult
		lockID string
	)
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		next, branched, branchedFrom := nextMinor(existing, versionBase)
		lockID = newLockID()

		_, err = conn.Exec(ctx,
			`INSERT INTO context_locks (id, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, locked_at, last_accessed, access_count)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now(), 0)`,
			lockID, sessionID, topic, next.String(), content, hash, preview, kcJSON, priority, metaJSON)
		if err == nil {
			result = LockResult{
				Label:        topic,
				Version:      next.String(),
				Hash:         hash,
				Preview:      preview,
				Priority:     priority,
				KeyConcepts:  keyConcepts,
				Branched:     branched,
				BranchedFrom: branchedFrom,
			}
			break
		}
		if !isUniqueViolation(err) {
			return LockResult{}, err
		}
		// Unique (label, version) violation: another writer won this minor.
		// Retry with the next one, per spec.md §4.4 step 6 and the
		// version_collision retry policy in §7.
		existing = append(existing, next.String())
		if attempt == maxVersionRetries-1 {
			return LockResult{}, engine.New(engine.KindVersionCollision, fmt.Sprintf("exhausted retry budget locking %q", topic))
		}
	}

	if err := recordEntry(ctx, conn, CategoryDecision, fmt.Sprintf("locked %q at version %s", topic, result.Version), map[string]any{"label": topic, "version": result.Version}); err != nil {
		return LockResult{}, err
	}

	// Embedding is an enhancement, never a gate (spec.md §9): failure here
	// must not abort the already-committed lock above.
	if vec, embedErr := c.embedder.Embed(ctx, preview); embedErr == nil {
		if embJSON, err := encodeFloatSlice(vec); err == nil {
			_, _ = conn.Exec(ctx, `UPDATE context_locks SET embedding = $1 WHERE id = $2`, embJSON, lockID)
			result.Embedded = true
		}
	}

	return result, nil
}

// isUniqueViolation reports whether err wraps Postgres SQLState 23505
// (unique_violation), the only conflict spec.md §4.4 step 6 expects on
// insert.
func isUniqueViolation(err error) bool {
	return engine.KindOf(err) == engine.KindInternal && strings.Contains(err.Error(), "23505")
}
