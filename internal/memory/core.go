package memory

import (
	"context"
	"log/slog"
	"time"

	"github.com/dementia-mcp/dementia/internal/catalog"
	"github.com/dementia-mcp/dementia/internal/config"
	"github.com/dementia-mcp/dementia/internal/embedclient"
	"github.com/dementia-mcp/dementia/internal/engine"
	"github.com/dementia-mcp/dementia/internal/session"
	"github.com/dementia-mcp/dementia/internal/storage"
)

// projectDirectory is the subset of *catalog.Registry the core needs,
// extracted as an interface so operations can be unit tested against a fake
// directory instead of a live Postgres catalog.
type projectDirectory interface {
	Create(ctx context.Context, name, namespace string) (*catalog.ProjectRecord, error)
	GetByNamespace(ctx context.Context, namespace string) (*catalog.ProjectRecord, error)
	GetByName(ctx context.Context, name string) (*catalog.ProjectRecord, error)
	List(ctx context.Context) ([]catalog.ProjectRecord, error)
}

// sessionLookup is the subset of *session.Store the core needs to read a
// session's current project binding during project resolution.
type sessionLookup interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	UpdateSummary(ctx context.Context, id string, summary session.Summary) error
}

// projectBinder is the subset of *session.Middleware the core needs to
// write the session-id -> project-name binding when a caller selects or
// switches projects — select_project_for_session/switch_project are the
// only writers of that binding (spec.md §5).
type projectBinder interface {
	SetProject(ctx context.Context, sessionID, projectName string) error
}

// namespaceOpener is the subset of *storage.Adapter the core needs: scoped
// borrow/release and lazy namespace creation.
type namespaceOpener interface {
	Borrow(ctx context.Context, namespace string) (*storage.Conn, error)
	EnsureNamespace(ctx context.Context, namespace string) error
}

// Core wires the Memory Core's collaborators: the Storage Adapter, the
// project directory, the session lookup, and the embedding/LLM
// collaborators. There is exactly one Core per process, constructed at
// bootstrap and passed to the Tool Surface — no package-level state, per
// SPEC_FULL.md §1.5.
type Core struct {
	store          namespaceOpener
	directory      projectDirectory
	sessions       sessionLookup
	binder         projectBinder
	embedder       embedclient.Embedder
	completer      embedclient.Completer
	handoverCutoff time.Duration
	logger         *slog.Logger
}

// NewCore constructs a Core from concrete collaborators.
func NewCore(store *storage.Adapter, directory *catalog.Registry, sessions *session.Store, binder *session.Middleware, embedder embedclient.Embedder, completer embedclient.Completer, cfg config.SessionConfig, logger *slog.Logger) *Core {
	cutoff := cfg.HandoverCutoff
	if cutoff <= 0 {
		cutoff = 2 * time.Hour
	}
	return &Core{
		store:          store,
		directory:      directory,
		sessions:       sessions,
		binder:         binder,
		embedder:       embedder,
		completer:      completer,
		handoverCutoff: cutoff,
		logger:         logger,
	}
}

// resolveProjectName implements spec.md §4.4's project_for_call: explicit
// argument wins, else the current session's binding, else
// project_not_selected. The result is sanitized before being returned.
func (c *Core) resolveProjectName(ctx context.Context, sessionID, explicitProject string) (string, error) {
	raw := explicitProject
	if raw == "" {
		sess, err := c.sessions.Get(ctx, sessionID)
		if err != nil {
			return "", engine.New(engine.KindProjectNotSelected, "no project selected for this session")
		}
		if sess.IsPending() {
			return "", engine.New(engine.KindProjectNotSelected, "no project selected for this session")
		}
		raw = sess.ProjectName
	}

	sanitized := Sanitize(raw)
	if sanitized == "" {
		return "", engine.New(engine.KindValidation, "invalid_project_name")
	}
	return sanitized, nil
}

// requireExistingNamespace resolves project name and confirms the catalog
// already has a registry entry for it — the path read operations take,
// since spec.md §6 says "a missing namespace on first read returns
// project_unknown".
func (c *Core) requireExistingNamespace(ctx context.Context, sessionID, explicitProject string) (*catalog.ProjectRecord, error) {
	namespace, err := c.resolveProjectName(ctx, sessionID, explicitProject)
	if err != nil {
		return nil, err
	}
	rec, err := c.directory.GetByNamespace(ctx, namespace)
	if err != nil {
		if engine.KindOf(err) == engine.KindNotFound {
			return nil, engine.New(engine.KindProjectUnknown, "project namespace does not exist")
		}
		return nil, err
	}
	return rec, nil
}

// ensureNamespace resolves project name and lazily creates both the
// catalog entry and the underlying schema if this is the first write
// referencing it (spec.md §3 "A project namespace is created lazily on
// first write").
func (c *Core) ensureNamespace(ctx context.Context, sessionID, explicitProject string) (*catalog.ProjectRecord, error) {
	namespace, err := c.resolveProjectName(ctx, sessionID, explicitProject)
	if err != nil {
		return nil, err
	}

	rec, err := c.directory.GetByNamespace(ctx, namespace)
	if err == nil {
		return rec, nil
	}
	if engine.KindOf(err) != engine.KindNotFound {
		return nil, err
	}

	displayName := explicitProject
	if displayName == "" {
		displayName = namespace
	}
	rec, err = c.directory.Create(ctx, displayName, namespace)
	if err != nil {
		return nil, err
	}
	if err := c.store.EnsureNamespace(ctx, namespace); err != nil {
		return nil, err
	}
	return rec, nil
}

// recordEntry writes an audit MemoryEntry on the given connection; used by
// every write operation that needs to log itself (spec.md §4.4 step 8).
func recordEntry(ctx context.Context, conn *storage.Conn, category, content string, metadata map[string]any) error {
	meta, err := encodeMetadata(metadata)
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx,
		`INSERT INTO memory_entries (id, category, content, metadata, created_at) VALUES ($1, $2, $3, $4, $5)`,
		newEntryID(), category, content, meta, time.Now())
	return err
}
