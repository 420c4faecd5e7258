package timeentries

import "context"

// Store lists entries newest date first. Delete is physical.
type Store interface {
	List(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	Create(ctx context.Context, entry Entry) (Entry, error)
	Update(ctx context.Context, id string, patch Patch) (Entry, error)
	Delete(ctx context.Context, id string) error
}
