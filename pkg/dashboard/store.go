package dashboard

import (
	"context"
	"errors"
)

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when a dashboard does not exist.
	ErrNotFound = errors.New("dashboard not found")
)

// Store is the interface for dashboard persistence backends.
type Store interface {
	// Get retrieves a dashboard by ID. Returns ErrNotFound if it does
	// not exist.
	Get(ctx context.Context, id string) (*Dashboard, error)

	// List returns all dashboards, ordered by title.
	List(ctx context.Context) ([]*Dashboard, error)

	// Save creates or replaces a dashboard. UpdatedAt is stamped by the
	// store.
	Save(ctx context.Context, d *Dashboard) error

	// Delete removes a dashboard. Deleting a missing dashboard is not an
	// error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
