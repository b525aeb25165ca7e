package storage

import (
	"context"
	"fmt"

	"github.com/dementia-mcp/dementia/internal/engine"
)

// namespaceDDL creates the per-project tables spec.md §6 lists under
// "Persisted state layout": context_locks, context_archives,
// memory_entries, plus the optional file_tags table, treated as opaque
// outside this package. No workspace_* tables are created. Run with
// search_path already pinned to the
// target namespace, so unqualified names land in that schema.
const namespaceDDL = `
CREATE TABLE IF NOT EXISTS context_locks (
	id             uuid PRIMARY KEY,
	session_id     text NOT NULL,
	label          text NOT NULL,
	version        text NOT NULL,
	content        text NOT NULL,
	content_hash   text NOT NULL,
	preview        text NOT NULL DEFAULT '',
	key_concepts   jsonb NOT NULL DEFAULT '[]'::jsonb,
	priority       text NOT NULL,
	metadata       jsonb NOT NULL DEFAULT '{}'::jsonb,
	embedding      jsonb,
	locked_at      timestamptz NOT NULL DEFAULT now(),
	last_accessed  timestamptz NOT NULL DEFAULT now(),
	access_count   bigint NOT NULL DEFAULT 0,
	UNIQUE (label, version)
);

CREATE TABLE IF NOT EXISTS context_archives (
	id             uuid PRIMARY KEY,
	original_id    uuid NOT NULL,
	session_id     text NOT NULL,
	label          text NOT NULL,
	version        text NOT NULL,
	content        text NOT NULL,
	content_hash   text NOT NULL,
	preview        text NOT NULL DEFAULT '',
	key_concepts   jsonb NOT NULL DEFAULT '[]'::jsonb,
	priority       text NOT NULL,
	metadata       jsonb NOT NULL DEFAULT '{}'::jsonb,
	locked_at      timestamptz NOT NULL,
	last_accessed  timestamptz NOT NULL,
	access_count   bigint NOT NULL DEFAULT 0,
	deleted_at     timestamptz NOT NULL DEFAULT now(),
	delete_reason  text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS memory_entries (
	id         uuid PRIMARY KEY,
	category   text NOT NULL,
	content    text NOT NULL,
	metadata   jsonb NOT NULL DEFAULT '{}'::jsonb,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS memory_entries_category_created_at_idx
	ON memory_entries (category, created_at DESC);

CREATE TABLE IF NOT EXISTS file_tags (
	id           uuid PRIMARY KEY,
	session_id   text NOT NULL,
	file_path    text NOT NULL,
	fingerprint  text NOT NULL,
	metadata     jsonb NOT NULL DEFAULT '{}'::jsonb,
	updated_at   timestamptz NOT NULL DEFAULT now()
);
`

// EnsureNamespace creates the project's schema and tables if they do not
// already exist (spec.md §3 "A project namespace is created lazily on first
// write referencing it."). Safe to call repeatedly; every statement is
// IF NOT EXISTS.
func (a *Adapter) EnsureNamespace(ctx context.Context, namespace string) error {
	if !namespacePattern.MatchString(namespace) {
		return engine.New(engine.KindValidation, fmt.Sprintf("invalid namespace %q", namespace))
	}

	createCtx, cancel := context.WithTimeout(ctx, a.statementTimeout)
	defer cancel()
	schemaSQL := fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, namespace)
	if _, err := a.pool.Exec(createCtx, schemaSQL); err != nil {
		return engine.Wrap(engine.KindInternal, fmt.Sprintf("create schema %q", namespace), err)
	}

	conn, err := a.Borrow(ctx, namespace)
	if err != nil {
		return err
	}
	defer conn.Release(ctx)

	ddlCtx, cancel2 := context.WithTimeout(ctx, a.statementTimeout)
	defer cancel2()
	if _, err := conn.raw.Exec(ddlCtx, namespaceDDL); err != nil {
		return engine.Wrap(engine.KindInternal, fmt.Sprintf("migrate namespace %q", namespace), err)
	}
	return nil
}
