// Package catalog holds the two pieces of cross-project global state: the
// project registry (name -> namespace directory) and the session table.
// Both live in the database's "public" schema and are managed through gorm,
// grounded on the teacher's repository.Database /
// pkg/repository.NewDatabase — the one place in this codebase where an ORM
// fits better than the schema-pinned Storage Adapter, since these rows are
// never partitioned by project.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dementia-mcp/dementia/internal/config"
	"github.com/dementia-mcp/dementia/internal/engine"
)

// ProjectRecord is a row in the project directory: the mapping from a
// human-chosen project name to its sanitized namespace (spec.md §4.4
// "project resolution").
type ProjectRecord struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Namespace string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (ProjectRecord) TableName() string { return "projects" }

// Registry is the gorm-backed project directory.
type Registry struct {
	db *gorm.DB
}

// Open connects to Postgres via gorm and migrates the catalog tables. It is
// separate from storage.Open (the pgxpool adapter) by design: gorm owns the
// public-schema catalog, pgxpool owns every schema-pinned per-project
// statement (see SPEC_FULL.md §2).
func Open(cfg config.DatabaseConfig) (*Registry, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gcfg)
	if err != nil {
		return nil, engine.Wrap(engine.KindTransientIO, "open gorm catalog connection", err)
	}

	if err := db.AutoMigrate(&ProjectRecord{}, &SessionRecord{}); err != nil {
		return nil, engine.Wrap(engine.KindInternal, "migrate catalog schema", err)
	}

	return &Registry{db: db}, nil
}

// DB exposes the underlying *gorm.DB for the session store (internal/session),
// which shares this same public-schema connection for its SessionRecord CRUD.
func (r *Registry) DB() *gorm.DB { return r.db }

// Close releases the underlying connection pool.
func (r *Registry) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create registers a new project. Returns a validation error if the
// sanitized namespace collides with an existing, differently-named project
// — spec.md §9's accepted-but-guarded collision risk.
func (r *Registry) Create(ctx context.Context, name, namespace string) (*ProjectRecord, error) {
	existing, err := r.GetByNamespace(ctx, namespace)
	if err != nil && engine.KindOf(err) != engine.KindNotFound {
		return nil, err
	}
	if existing != nil && existing.Name != name {
		return nil, engine.New(engine.KindValidation,
			fmt.Sprintf("project name %q sanitizes to namespace %q, already used by %q", name, namespace, existing.Name))
	}
	if existing != nil {
		return existing, nil
	}

	rec := &ProjectRecord{ID: newID(), Name: name, Namespace: namespace, CreatedAt: time.Now()}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, engine.Wrap(engine.KindInternal, "insert project record", err)
	}
	return rec, nil
}

// GetByNamespace looks up a project by its sanitized namespace.
func (r *Registry) GetByNamespace(ctx context.Context, namespace string) (*ProjectRecord, error) {
	var rec ProjectRecord
	err := r.db.WithContext(ctx).Where("namespace = ?", namespace).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, engine.New(engine.KindNotFound, fmt.Sprintf("project namespace %q not found", namespace))
	}
	if err != nil {
		return nil, engine.Wrap(engine.KindInternal, "lookup project by namespace", err)
	}
	return &rec, nil
}

// GetByName looks up a project by its original display name.
func (r *Registry) GetByName(ctx context.Context, name string) (*ProjectRecord, error) {
	var rec ProjectRecord
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, engine.New(engine.KindNotFound, fmt.Sprintf("project %q not found", name))
	}
	if err != nil {
		return nil, engine.Wrap(engine.KindInternal, "lookup project by name", err)
	}
	return &rec, nil
}

// List enumerates every registered project — spec.md §3's "set of
// namespaces is enumerable from the database's own catalog", served here by
// the registry rather than by introspecting pg_namespace directly, so the
// directory also carries the original display name.
func (r *Registry) List(ctx context.Context) ([]ProjectRecord, error) {
	var recs []ProjectRecord
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, engine.Wrap(engine.KindInternal, "list projects", err)
	}
	return recs, nil
}
