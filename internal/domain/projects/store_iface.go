package projects

import "context"

// Store lists projects oldest first. Projects are archived, never removed.
type Store interface {
	List(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id string) (Project, error)
	Create(ctx context.Context, project Project) (Project, error)
	Update(ctx context.Context, id string, patch Patch) (Project, error)
}
