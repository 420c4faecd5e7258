package users

import "context"

// Store is the persistence contract for users. List returns users ordered by
// creation time, oldest first. There is no physical delete.
type Store interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, id string, patch Patch) (User, error)
}
