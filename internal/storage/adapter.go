// Package storage implements the Storage Adapter (spec.md §4.1): a
// process-wide bounded async connection pool over PostgreSQL with
// per-acquisition schema pinning. It is the sole mechanism of project
// isolation at the SQL layer (spec.md §9 Design Notes).
package storage

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dementia-mcp/dementia/internal/config"
	"github.com/dementia-mcp/dementia/internal/engine"
)

// Adapter wraps a bounded pgxpool.Pool. It is a singleton within a process,
// constructed once at bootstrap and shared by every component — the teacher's
// repository.Database and pkg/repository.NewDatabase play the analogous role
// over gorm; here the pool is the thing that needs to be shared, not an ORM
// handle, so spec.md's "bounded async connection pool" is modeled directly.
type Adapter struct {
	pool             *pgxpool.Pool
	statementTimeout time.Duration
}

// namespacePattern matches the sanitized namespace alphabet memory.Sanitize
// produces; it is re-checked here so the adapter never interpolates an
// unexpected namespace into SQL.
var namespacePattern = regexp.MustCompile(`^[a-z0-9_]{1,40}$`)

// Open establishes the pool and verifies connectivity. The pool bounds
// (min/max conns) and per-statement timeout come from cfg, per spec.md §4.1's
// "typical bounds: min 2, max 10; command timeout ~60s".
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Adapter, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, engine.Wrap(engine.KindInternal, "parse database DSN", err)
	}

	minConns := cfg.MinConns
	if minConns <= 0 {
		minConns = 2
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	poolCfg.MinConns = minConns
	poolCfg.MaxConns = maxConns
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, engine.Wrap(engine.KindTransientIO, "open connection pool", err)
	}

	statementTimeout := cfg.StatementTimeout
	if statementTimeout <= 0 {
		statementTimeout = 30 * time.Second
	}

	a := &Adapter{pool: pool, statementTimeout: statementTimeout}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, engine.Wrap(engine.KindTransientIO, "ping database", err)
	}

	return a, nil
}

// Close releases the pool. Safe to call once at process shutdown.
func (a *Adapter) Close() {
	a.pool.Close()
}

// Pool exposes the underlying pool for callers that need an unscoped
// connection in the public schema. The catalog does not use it; it opens
// its own gorm connection (catalog.Open).
func (a *Adapter) Pool() *pgxpool.Pool { return a.pool }

// Conn is a single scoped acquisition: a borrowed connection pinned to one
// project namespace for the duration of an operation. Release must be
// called exactly once on every exit path — spec.md §5 "No handler may
// complete while holding a borrowed connection" and §9's single
// borrow/pin/release scope.
type Conn struct {
	raw       *pgxpool.Conn
	timeout   time.Duration
	namespace string
	released  bool
}

// Borrow acquires a connection and pins its search_path to the given
// project namespace, public last so catalog-adjacent helper functions
// remain visible. This is the only place search_path is pinned to a
// project namespace; the only other "SET search_path" is Release's reset
// to public.
func (a *Adapter) Borrow(ctx context.Context, namespace string) (*Conn, error) {
	if !namespacePattern.MatchString(namespace) {
		return nil, engine.New(engine.KindProjectUnknown, fmt.Sprintf("invalid namespace %q", namespace))
	}

	raw, err := a.pool.Acquire(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, engine.Wrap(engine.KindTransientIO, "acquire connection", err)
		}
		return nil, engine.Wrap(engine.KindTransientIO, "acquire connection", err)
	}

	pinCtx, cancel := context.WithTimeout(ctx, a.statementTimeout)
	defer cancel()

	// search_path cannot be parameterized; namespacePattern above is what
	// makes this interpolation safe.
	sql := fmt.Sprintf(`SET search_path = "%s", public`, namespace)
	if _, err := raw.Exec(pinCtx, sql); err != nil {
		raw.Release()
		return nil, engine.Wrap(engine.KindProjectUnknown, fmt.Sprintf("pin namespace %q", namespace), err)
	}

	return &Conn{raw: raw, timeout: a.statementTimeout, namespace: namespace}, nil
}

// Release resets search_path to public and returns the connection to the
// pool. It must never leak the pinned namespace to the next borrower
// (spec.md §4.1 "Schema-pin discipline").
func (c *Conn) Release(ctx context.Context) {
	if c.released {
		return
	}
	c.released = true
	resetCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	_, _ = c.raw.Exec(resetCtx, `SET search_path = public`)
	c.raw.Release()
}

// Query runs a positional-placeholder SELECT and returns each row as a
// mapping, per spec.md §4.1's `query(sql, params) -> rows as mappings`.
func (c *Conn) Query(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	if err := validatePlaceholders(sql); err != nil {
		return nil, err
	}
	qCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.raw.Query(qCtx, sql, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	results, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, classifyError(err)
	}
	return results, nil
}

// Exec runs a positional-placeholder INSERT/UPDATE/DELETE and returns the
// number of rows affected, per spec.md §4.1's `execute(sql, params) ->
// rows-affected`.
func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	if err := validatePlaceholders(sql); err != nil {
		return 0, err
	}
	eCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tag, err := c.raw.Exec(eCtx, sql, args...)
	if err != nil {
		return 0, classifyError(err)
	}
	return tag.RowsAffected(), nil
}

// Namespace reports the namespace this connection is pinned to.
func (c *Conn) Namespace() string { return c.namespace }

func classifyError(err error) error {
	if err == context.DeadlineExceeded {
		return engine.Wrap(engine.KindTransientIO, "statement timeout", err)
	}
	var pgErr *pgconn.PgError
	if asPgError(err, &pgErr) {
		return engine.Wrap(engine.KindInternal, "query_error:"+pgErr.Code, err)
	}
	return engine.Wrap(engine.KindTransientIO, "statement failed", err)
}

func asPgError(err error, target **pgconn.PgError) bool {
	for err != nil {
		if e, ok := err.(*pgconn.PgError); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

var questionMarkPlaceholder = regexp.MustCompile(`(?:^|[^:])\?`)

// validatePlaceholders rejects SQL using the "?" placeholder style, per
// spec.md §4.1: "Implementations must convert consistently and reject mixed
// styles." Callers always write positional "$1, $2, ..." placeholders.
func validatePlaceholders(sql string) error {
	if questionMarkPlaceholder.MatchString(sql) {
		return engine.New(engine.KindValidation, "mixed placeholder style: use $1, $2, ... positional placeholders")
	}
	if strings.Contains(sql, ":=") {
		return engine.New(engine.KindValidation, "named placeholder style not supported")
	}
	return nil
}
