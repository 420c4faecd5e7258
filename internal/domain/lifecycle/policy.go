package lifecycle

import "errors"

var ErrUnsupportedPolicy = errors.New("unsupported deletion policy")

// Policy tells a service how a "delete" request is carried out for an entity.
type Policy int

const (
	// SoftDelete flips isActive to false and keeps the row so references
	// from time entries stay valid.
	SoftDelete Policy = iota + 1
	// HardDelete removes the row.
	HardDelete
)

func (p Policy) String() string {
	switch p {
	case SoftDelete:
		return "soft"
	case HardDelete:
		return "hard"
	default:
		return "unknown"
	}
}

// Mutation is the result of a write: the affected item and the collection
// reloaded after the write.
type Mutation[T any] struct {
	Item       T   `json:"item"`
	Collection []T `json:"collection"`
}
