package memory

import (
	"context"
	"testing"

	"github.com/dementia-mcp/dementia/internal/catalog"
	"github.com/dementia-mcp/dementia/internal/engine"
	"github.com/dementia-mcp/dementia/internal/storage"
)

// fakeDirectory is an in-memory stand-in for *catalog.Registry, keyed by
// namespace, used so project resolution/creation can be unit tested without
// a live Postgres catalog.
type fakeDirectory struct {
	byNamespace map[string]catalog.ProjectRecord
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{byNamespace: make(map[string]catalog.ProjectRecord)}
}

func (f *fakeDirectory) Create(_ context.Context, name, namespace string) (*catalog.ProjectRecord, error) {
	if existing, ok := f.byNamespace[namespace]; ok {
		if existing.Name != name {
			return nil, engine.New(engine.KindValidation, "namespace collision")
		}
		return &existing, nil
	}
	rec := catalog.ProjectRecord{ID: namespace, Name: name, Namespace: namespace}
	f.byNamespace[namespace] = rec
	return &rec, nil
}

func (f *fakeDirectory) GetByNamespace(_ context.Context, namespace string) (*catalog.ProjectRecord, error) {
	rec, ok := f.byNamespace[namespace]
	if !ok {
		return nil, engine.New(engine.KindNotFound, "project not found")
	}
	return &rec, nil
}

func (f *fakeDirectory) GetByName(_ context.Context, name string) (*catalog.ProjectRecord, error) {
	for _, rec := range f.byNamespace {
		if rec.Name == name {
			cp := rec
			return &cp, nil
		}
	}
	return nil, engine.New(engine.KindNotFound, "project not found")
}

func (f *fakeDirectory) List(_ context.Context) ([]catalog.ProjectRecord, error) {
	recs := make([]catalog.ProjectRecord, 0, len(f.byNamespace))
	for _, rec := range f.byNamespace {
		recs = append(recs, rec)
	}
	return recs, nil
}

// fakeNamespaceStore never needs a real connection for the paths these
// tests exercise (project creation/selection calls EnsureNamespace, not
// Borrow).
type fakeNamespaceStore struct {
	ensured map[string]bool
}

func newFakeNamespaceStore() *fakeNamespaceStore {
	return &fakeNamespaceStore{ensured: make(map[string]bool)}
}

func (f *fakeNamespaceStore) Borrow(context.Context, string) (*storage.Conn, error) {
	panic("not exercised by these tests")
}

func (f *fakeNamespaceStore) EnsureNamespace(_ context.Context, namespace string) error {
	f.ensured[namespace] = true
	return nil
}

type fakeBinder struct {
	bindings map[string]string
}

func newFakeBinder() *fakeBinder { return &fakeBinder{bindings: make(map[string]string)} }

func (f *fakeBinder) SetProject(_ context.Context, sessionID, projectName string) error {
	f.bindings[sessionID] = projectName
	return nil
}

func newTestCore(directory *fakeDirectory, store *fakeNamespaceStore, binder *fakeBinder) *Core {
	return &Core{
		store:          store,
		directory:      directory,
		binder:         binder,
		handoverCutoff: 0,
	}
}

func TestCreateProject_SanitizesAndProvisions(t *testing.T) {
	dir := newFakeDirectory()
	store := newFakeNamespaceStore()
	core := newTestCore(dir, store, newFakeBinder())

	view, err := core.CreateProject(context.Background(), "Alpha-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Namespace != "alpha_1" {
		t.Fatalf("expected namespace alpha_1, got %q", view.Namespace)
	}
	if !store.ensured["alpha_1"] {
		t.Fatal("expected namespace to be provisioned")
	}
}

func TestCreateProject_EmptyNameIsInvalid(t *testing.T) {
	core := newTestCore(newFakeDirectory(), newFakeNamespaceStore(), newFakeBinder())
	_, err := core.CreateProject(context.Background(), "")
	if engine.KindOf(err) != engine.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSelectProjectForSession_BindsSession(t *testing.T) {
	dir := newFakeDirectory()
	binder := newFakeBinder()
	core := newTestCore(dir, newFakeNamespaceStore(), binder)

	view, err := core.SelectProjectForSession(context.Background(), "sess-1", "Alpha-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if binder.bindings["sess-1"] != view.Namespace {
		t.Fatalf("expected session bound to %q, got %q", view.Namespace, binder.bindings["sess-1"])
	}
}

func TestListProjects_ReturnsCreated(t *testing.T) {
	dir := newFakeDirectory()
	core := newTestCore(dir, newFakeNamespaceStore(), newFakeBinder())

	if _, err := core.CreateProject(context.Background(), "Alpha"); err != nil {
		t.Fatalf("create: %v", err)
	}
	views, err := core.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].Name != "Alpha" {
		t.Fatalf("got %v", views)
	}
}
