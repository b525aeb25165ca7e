package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dementia-mcp/dementia/internal/engine"
)

// whitelist lists the tools callable without a selected project (spec.md
// §4.3). Mirrors the teacher's AllowedWithoutInit table in
// internal/mcp/session.go, retargeted from "session initialized" to
// "project selected".
var whitelist = map[string]bool{
	"list_projects":              true,
	"create_project":             true,
	"select_project_for_session": true,
	"switch_project":             true,
	"health":                     true,
}

// Whitelisted reports whether toolName may run before a project is
// selected.
func Whitelisted(toolName string) bool { return whitelist[toolName] }

// sessionStore is the subset of *Store the middleware needs, extracted as
// an interface so the gate/cache logic can be unit tested without a live
// Postgres connection.
type sessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Create(ctx context.Context, id, projectName string) (*Session, error)
	Touch(ctx context.Context, id string) error
	UpdateProject(ctx context.Context, id, projectName string) (bool, error)
}

// Middleware implements spec.md §4.3's five-step request pipeline:
// identify, resolve, gate, publish, dispatch.
type Middleware struct {
	store sessionStore

	// cache is the in-memory session-id -> project-name hint described in
	// spec.md §5. SetProject (project selection) writes new bindings to it,
	// and projectFor overwrites an entry with the database value on a miss
	// or divergence — the database row remains the source of truth.
	mu    sync.RWMutex
	cache map[string]string
}

// NewMiddleware constructs a Middleware bound to store.
func NewMiddleware(store *Store) *Middleware {
	return newMiddleware(store)
}

func newMiddleware(store sessionStore) *Middleware {
	return &Middleware{store: store, cache: make(map[string]string)}
}

// Identify extracts a stable session id from transport metadata, or
// synthesizes one if the transport supplied none (spec.md §4.3 step 1).
func Identify(transportID string) string {
	if transportID != "" {
		return transportID
	}
	return uuid.New().String()
}

// Resolved is what Dispatch needs to hand to a Memory Core operation: the
// session id and its currently-bound project name.
type Resolved struct {
	SessionID   string
	ProjectName string
}

// Resolve implements steps 2-4: look up or create the session row, gate
// non-whitelisted tools on project selection, and publish the resolved
// binding for the handler to read.
func (m *Middleware) Resolve(ctx context.Context, transportID, toolName string) (*Resolved, error) {
	id := Identify(transportID)

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		if engine.KindOf(err) != engine.KindNotFound {
			return nil, err
		}
		sess, err = m.store.Create(ctx, id, PendingProject)
		if err != nil {
			return nil, err
		}
	}

	projectName := m.projectFor(id, sess.ProjectName)

	if !Whitelisted(toolName) && (projectName == "" || projectName == PendingProject) {
		return nil, engine.New(engine.KindProjectNotSelected,
			fmt.Sprintf("no project selected for this session; call select_project_for_session before %q", toolName))
	}

	return &Resolved{SessionID: id, ProjectName: projectName}, nil
}

// Touch is called by Dispatch on return, per spec.md §4.3 step 5.
func (m *Middleware) Touch(ctx context.Context, sessionID string) error {
	return m.store.Touch(ctx, sessionID)
}

// SetProject is the only path that changes a session's project binding,
// used by select_project_for_session / switch_project (spec.md §5). It
// updates the database row, then the cache.
func (m *Middleware) SetProject(ctx context.Context, sessionID, projectName string) error {
	if _, err := m.store.UpdateProject(ctx, sessionID, projectName); err != nil {
		return err
	}
	m.mu.Lock()
	m.cache[sessionID] = projectName
	m.mu.Unlock()
	return nil
}

// projectFor returns the cached project name for sessionID, reconciling
// from the database value (fromDB) on a cache miss or divergence. The
// database row is always authoritative; the cache only shortcuts the
// lookup (spec.md §5 "Shared resources").
func (m *Middleware) projectFor(sessionID, fromDB string) string {
	m.mu.RLock()
	cached, ok := m.cache[sessionID]
	m.mu.RUnlock()
	if ok && cached == fromDB {
		return cached
	}

	m.mu.Lock()
	m.cache[sessionID] = fromDB
	m.mu.Unlock()
	return fromDB
}
