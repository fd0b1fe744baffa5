package registry

import (
	"context"

	"github.com/finditapp/findit/internal/model"
)

// Repository is the typed facade over the persistent store's item
// primitives. Implementations must return FetchError for failed reads and
// InsertError for failed writes, carrying the store's message verbatim.
type Repository interface {
	// ListByType returns all reports of the given type and status, ordered
	// by creation time descending (newest first).
	ListByType(ctx context.Context, itemType, status string) ([]model.Item, error)

	// Insert persists a fully validated draft for the given reporter. The
	// store assigns the id, creation timestamp, and active status, and the
	// persisted record is returned as stored. An insert either fully
	// succeeds or fully fails; there are no partial writes.
	Insert(ctx context.Context, draft Draft, reporterID string) (*model.Item, error)
}
