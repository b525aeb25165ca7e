package session

import (
	"context"
	"testing"

	"github.com/dementia-mcp/dementia/internal/engine"
)

// fakeStore is an in-memory stand-in for *Store, used so the gate and cache
// logic can be exercised without a live Postgres connection — the same
// spirit as the teacher's internal/mcp/similarity_test.go, which tests pure
// logic with plain table-driven cases.
type fakeStore struct {
	rows map[string]*Session
}

func newFakeStore() *fakeStore { return &fakeStore{rows: make(map[string]*Session)} }

func (f *fakeStore) Get(_ context.Context, id string) (*Session, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, engine.New(engine.KindNotFound, "session not found")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, id, projectName string) (*Session, error) {
	if s, ok := f.rows[id]; ok {
		cp := *s
		return &cp, nil
	}
	s := &Session{ID: id, ProjectName: projectName}
	f.rows[id] = s
	cp := *s
	return &cp, nil
}

func (f *fakeStore) Touch(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return engine.New(engine.KindNotFound, "session not found")
	}
	return nil
}

func (f *fakeStore) UpdateProject(_ context.Context, id, projectName string) (bool, error) {
	s, ok := f.rows[id]
	if !ok {
		return false, engine.New(engine.KindNotFound, "session not found")
	}
	s.ProjectName = projectName
	return true, nil
}

func TestResolve_GatesNonWhitelistedToolWithoutProject(t *testing.T) {
	mw := newMiddleware(newFakeStore())
	ctx := context.Background()

	_, err := mw.Resolve(ctx, "sess-1", "lock_context")
	if engine.KindOf(err) != engine.KindProjectNotSelected {
		t.Fatalf("expected project_not_selected, got %v", err)
	}
}

func TestResolve_AllowsWhitelistedToolWithoutProject(t *testing.T) {
	mw := newMiddleware(newFakeStore())
	ctx := context.Background()

	resolved, err := mw.Resolve(ctx, "sess-1", "list_projects")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.ProjectName != PendingProject {
		t.Fatalf("expected pending project, got %q", resolved.ProjectName)
	}
}

func TestResolve_AllowsNonWhitelistedToolAfterSelection(t *testing.T) {
	mw := newMiddleware(newFakeStore())
	ctx := context.Background()

	if _, err := mw.Resolve(ctx, "sess-1", "list_projects"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mw.SetProject(ctx, "sess-1", "alpha_1"); err != nil {
		t.Fatalf("SetProject: %v", err)
	}

	resolved, err := mw.Resolve(ctx, "sess-1", "lock_context")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.ProjectName != "alpha_1" {
		t.Fatalf("expected alpha_1, got %q", resolved.ProjectName)
	}
}

func TestIdentify_SynthesizesWhenMissing(t *testing.T) {
	if Identify("explicit") != "explicit" {
		t.Fatal("expected explicit id to pass through")
	}
	if Identify("") == "" {
		t.Fatal("expected a synthesized id")
	}
}

func TestProjectFor_ReconcilesCacheFromDatabase(t *testing.T) {
	mw := newMiddleware(newFakeStore())

	mw.cache["sess-1"] = "stale"
	got := mw.projectFor("sess-1", "fresh")
	if got != "fresh" {
		t.Fatalf("expected reconciliation to prefer db value, got %q", got)
	}
	if mw.cache["sess-1"] != "fresh" {
		t.Fatalf("expected cache to be updated to db value, got %q", mw.cache["sess-1"])
	}
}
