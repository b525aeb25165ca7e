package memory

import (
	"context"

	"github.com/dementia-mcp/dementia/internal/catalog"
	"github.com/dementia-mcp/dementia/internal/engine"
)

// ProjectView is what the Tool Surface returns for a project: its display
// name and the namespace it resolves to.
type ProjectView struct {
	Name      string
	Namespace string
}

func toProjectView(rec catalog.ProjectRecord) ProjectView {
	return ProjectView{Name: rec.Name, Namespace: rec.Namespace}
}

// CreateProject registers name, sanitizing it to a namespace and lazily
// provisioning the namespace's schema and tables. Supplemental to spec.md
// §4.4 proper (see SPEC_FULL.md §4.4) — every deployment needs a way to
// create the namespaces spec.md §3 says are catalog-enumerable.
func (c *Core) CreateProject(ctx context.Context, name string) (ProjectView, error) {
	if name == "" {
		return ProjectView{}, engine.New(engine.KindValidation, "project name is required")
	}
	rec, err := c.ensureNamespace(ctx, "", name)
	if err != nil {
		return ProjectView{}, err
	}
	return toProjectView(*rec), nil
}

// ListProjects enumerates the project directory.
func (c *Core) ListProjects(ctx context.Context) ([]ProjectView, error) {
	recs, err := c.directory.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ProjectView, len(recs))
	for i, r := range recs {
		views[i] = toProjectView(r)
	}
	return views, nil
}

// SelectProjectForSession binds sessionID to name for the rest of the
// session, lazily creating the namespace if this is the first reference to
// it (spec.md §8 scenario 1).
func (c *Core) SelectProjectForSession(ctx context.Context, sessionID, name string) (ProjectView, error) {
	if name == "" {
		return ProjectView{}, engine.New(engine.KindValidation, "project name is required")
	}
	rec, err := c.ensureNamespace(ctx, "", name)
	if err != nil {
		return ProjectView{}, err
	}
	if err := c.binder.SetProject(ctx, sessionID, rec.Namespace); err != nil {
		return ProjectView{}, err
	}
	return toProjectView(*rec), nil
}

// SwitchProject is an alias for SelectProjectForSession: both tools bind a
// session to a (possibly different) project, per spec.md §8 scenario 4.
func (c *Core) SwitchProject(ctx context.Context, sessionID, name string) (ProjectView, error) {
	return c.SelectProjectForSession(ctx, sessionID, name)
}
