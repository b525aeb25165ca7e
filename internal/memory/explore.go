package memory

import (
	"context"
	"sort"
	"time"
)

// StalenessWindow is the "not accessed for > 30 days" threshold spec.md
// §4.4 names for context_dashboard's staleness warnings.
const StalenessWindow = 30 * 24 * time.Hour

// ContextTreeNode is one label's version list, for explore_context_tree.
type ContextTreeNode struct {
	Label    string
	Versions []string
}

// ExploreContextTree implements spec.md §4.4's explore_context_tree: a
// read-only summary of every label and its versions, strictly within the
// resolved project namespace (no session_id filter).
func (c *Core) ExploreContextTree(ctx context.Context, sessionID, explicitProject string, flat bool) ([]ContextTreeNode, error) {
	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return nil, err
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return nil, err
	}
	defer conn.Release(ctx)

	rows, err := conn.Query(ctx, `SELECT label, version FROM context_locks ORDER BY label`)
	if err != nil {
		return nil, err
	}

	byLabel := make(map[string][]string)
	var order []string
	for _, row := range rows {
		label := asString(row["label"])
		if _, seen := byLabel[label]; !seen {
			order = append(order, label)
		}
		byLabel[label] = append(byLabel[label], asString(row["version"]))
	}

	if flat {
		var flatNodes []ContextTreeNode
		for _, label := range order {
			for _, v := range byLabel[label] {
				flatNodes = append(flatNodes, ContextTreeNode{Label: label, Versions: []string{v}})
			}
		}
		return flatNodes, nil
	}

	nodes := make([]ContextTreeNode, 0, len(order))
	for _, label := range order {
		nodes = append(nodes, ContextTreeNode{Label: label, Versions: byLabel[label]})
	}
	return nodes, nil
}

// Dashboard is context_dashboard's response payload.
type Dashboard struct {
	CountsByPriority map[string]int
	StorageSize      int64
	TopAccessed      []ContextLock
	LeastAccessed    []ContextLock
	NeverAccessed    []ContextLock
	Stale            []ContextLock
}

// ContextDashboard implements spec.md §4.4's context_dashboard.
func (c *Core) ContextDashboard(ctx context.Context, sessionID, explicitProject string) (Dashboard, error) {
	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		return Dashboard{}, err
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		return Dashboard{}, err
	}
	defer conn.Release(ctx)

	rows, err := conn.Query(ctx,
		`SELECT id::text, session_id, label, version, content, content_hash, preview, key_concepts, priority, metadata, locked_at, last_accessed, access_count
		 FROM context_locks`)
	if err != nil {
		return Dashboard{}, err
	}

	locks := make([]ContextLock, 0, len(rows))
	counts := make(map[string]int)
	var storageSize int64
	for _, row := range rows {
		l, err := rowToLock(row)
		if err != nil {
			return Dashboard{}, err
		}
		locks = append(locks, l)
		counts[l.Priority]++
		storageSize += int64(len(l.Content))
	}

	sorted := make([]ContextLock, len(locks))
	copy(sorted, locks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].AccessCount > sorted[j].AccessCount })

	top := sorted
	if len(top) > 5 {
		top = top[:5]
	}
	least := make([]ContextLock, len(sorted))
	copy(least, sorted)
	sort.Slice(least, func(i, j int) bool { return least[i].AccessCount < least[j].AccessCount })
	if len(least) > 5 {
		least = least[:5]
	}

	var never, stale []ContextLock
	staleCutoff := time.Now().Add(-StalenessWindow)
	for _, l := range locks {
		if l.AccessCount == 0 {
			never = append(never, l)
		}
		if l.LastAccessed.Before(staleCutoff) {
			stale = append(stale, l)
		}
	}

	return Dashboard{
		CountsByPriority: counts,
		StorageSize:      storageSize,
		TopAccessed:      top,
		LeastAccessed:    least,
		NeverAccessed:    never,
		Stale:            stale,
	}, nil
}
