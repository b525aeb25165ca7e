package memory

import "context"

// LockRequest is one item of a batch_lock_contexts call.
type LockRequest struct {
	Topic       string
	Content     string
	Tags        []string
	Priority    string
	VersionBase string
}

// BatchLockContexts implements spec.md §4.4's batch_lock_contexts: the
// multi-key variant of lock_context, reducing round-trips. The batch is not
// atomic: each item resolves and commits independently, so items that
// succeed stay committed when another item fails, and one item's
// version_collision does not abort the others.
func (c *Core) BatchLockContexts(ctx context.Context, sessionID, explicitProject string, requests []LockRequest) ([]LockResult, []error) {
	results := make([]LockResult, len(requests))
	errs := make([]error, len(requests))
	for i, r := range requests {
		results[i], errs[i] = c.LockContext(ctx, sessionID, explicitProject, r.Content, r.Topic, r.Tags, r.Priority, r.VersionBase)
	}
	return results, errs
}

// RecallRequest is one item of a batch_recall_contexts call.
type RecallRequest struct {
	Topic   string
	Version string
}

// BatchRecallContexts implements spec.md §4.4's batch_recall_contexts.
func (c *Core) BatchRecallContexts(ctx context.Context, sessionID, explicitProject string, requests []RecallRequest) ([]ContextLock, []error) {
	rec, err := c.requireExistingNamespace(ctx, sessionID, explicitProject)
	if err != nil {
		locks := make([]ContextLock, len(requests))
		errs := make([]error, len(requests))
		for i := range errs {
			errs[i] = err
		}
		return locks, errs
	}

	conn, err := c.store.Borrow(ctx, rec.Namespace)
	if err != nil {
		locks := make([]ContextLock, len(requests))
		errs := make([]error, len(requests))
		for i := range errs {
			errs[i] = err
		}
		return locks, errs
	}
	defer conn.Release(ctx)

	locks := make([]ContextLock, len(requests))
	errs := make([]error, len(requests))
	for i, r := range requests {
		version := r.Version
		if version == "" {
			version = "latest"
		}
		locks[i], errs[i] = recallWithConn(ctx, conn, r.Topic, version)
	}
	return locks, errs
}
