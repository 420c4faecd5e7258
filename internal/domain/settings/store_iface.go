package settings

import "context"

// Store holds the single settings record. Get returns apperr.ErrNotFound
// until something has been saved.
type Store interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) (Settings, error)
}
