package memory

import (
	"context"
	"fmt"
	"math"
)

// SearchHit is one ranked result from search_contexts/semantic_search_contexts.
type SearchHit struct {
	Lock  ContextLock
	Score float64
}

// SearchContexts implements spec.md §4.4's keyword fallback search: no
// session_id filter (project-schema isolation already bounds the result
// set — spec.md §9 "Search-filter bug class").
func (c *Core) SearchContexts(ctx context.Context, sessionID, explicitProject, query, priority string, tags []string, limit int) ([]SearchHit, error) {
	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return nil, err
	}
	defer conn.Release(ctx)

	sql := `SELECT id::text, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, embedding, locked_at, last_accessed, access_count
	        FROM context_locks WHERE 1=1`
	args := []any{}
	argN := 0
	if priority != "" {
		argN++
		sql += fmt.Sprintf(" AND priority = $%d", argN)
		args = append(args, priority)
	}
	for _, tag := range tags {
		argN++
		// Containment (@>) rather than the jsonb "?" existence operator:
		// Conn.Exec/Query reject a literal "?" as a mixed placeholder
		// style, so tag membership is expressed as array containment
		// instead, passing a one-element JSON array to match against.
		sql += fmt.Sprintf(" AND metadata->'tags' @> $%d::jsonb", argN)
		tagJSON, err := encodeStringSlice([]string{tag})
		if err != nil {
			return nil, err
		}
		args = append(args, string(tagJSON))
	}
	sql += " ORDER BY last_accessed DESC"

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	candidates := make([]ContextLock, 0, len(rows))
	searchable := make([]SearchableLock, 0, len(rows))
	for _, row := range rows {
		l, err := rowToLock(row)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, l)
		searchable = append(searchable, SearchableLock{Label: l.Label, Content: l.Content, Preview: l.Preview, KeyConcepts: l.KeyConcepts})
	}

	ranked := RankByKeyword(query, searchable)
	hits := make([]SearchHit, 0, len(ranked))
	for _, r := range ranked {
		for _, l := range candidates {
			if l.Label == r.Lock.Label && l.Content == r.Lock.Content {
				hits = append(hits, SearchHit{Lock: l, Score: r.Score})
				break
			}
		}
		if len(hits) >= limit {
			break
		}
	}
	return hits, nil
}

// SemanticSearchContexts implements spec.md §4.4's semantic_search_contexts:
// embed the query, rank by vector distance, falling back to keyword search
// with a degraded flag if the embedding service is unavailable.
func (c *Core) SemanticSearchContexts(ctx context.Context, sessionID, explicitProject, query string, limit int) ([]SearchHit, bool, error) {
	queryVec, err := c.embedder.Embed(ctx, query)
	if err != nil {
		hits, searchErr := c.SearchContexts(ctx, sessionID, explicitProject, query, "", nil, limit)
		return hits, true, searchErr
	}

	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return nil, false, err
	}
	if limit <= 0 {
		limit = 10
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return nil, false, err
	}
	defer conn.Release(ctx)

	rows, err := conn.Query(ctx,
		`SELECT id::text, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, embedding, locked_at, last_accessed, access_count
		 FROM context_locks WHERE embedding IS NOT NULL`)
	if err != nil {
		return nil, false, err
	}

	hits := make([]SearchHit, 0, len(rows))
	for _, row := range rows {
		l, err := rowToLock(row)
		if err != nil {
			return nil, false, err
		}
		if len(l.Embedding) == 0 {
			continue
		}
		hits = append(hits, SearchHit{Lock: l, Score: cosineSimilarity(queryVec, l.Embedding)})
	}
	sortHitsByScoreDesc(hits)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, false, nil
}

// CheckContexts implements spec.md §4.4's check_contexts: contexts flagged
// always_check, or whose key_concepts intersect prominent terms of text.
func (c *Core) CheckContexts(ctx context.Context, sessionID, explicitProject, text string) ([]ContextLock, error) {
	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return nil, err
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return nil, err
	}
	defer conn.Release(ctx)

	rows, err := conn.Query(ctx,
		`SELECT id::text, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, embedding, locked_at, last_accessed, access_count
		 FROM context_locks`)
	if err != nil {
		return nil, err
	}

	var hits []ContextLock
	for _, row := range rows {
		l, err := rowToLock(row)
		if err != nil {
			return nil, err
		}
		if l.Priority == PriorityAlwaysCheck || IntersectsKeyConcepts(text, l.KeyConcepts) {
			hits = append(hits, l)
		}
	}
	return hits, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func sortHitsByScoreDesc(hits []SearchHit) {
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j-1].Score < hits[j].Score; j-- {
			hits[j-1], hits[j] = hits[j], hits[j-1]
		}
	}
}
