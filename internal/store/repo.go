package store

import (
	"context"
	"database/sql"

	"github.com/finditapp/findit/internal/model"
	"github.com/finditapp/findit/internal/registry"
)

// Repo gives the SQL store the registry.Repository shape.
type Repo struct {
	DB *sql.DB
}

var _ registry.Repository = (*Repo)(nil)

// ListByType implements registry.Repository.
func (r *Repo) ListByType(ctx context.Context, itemType, status string) ([]model.Item, error) {
	items, err := ListItems(ctx, r.DB, itemType, status)
	if err != nil {
		return nil, &registry.FetchError{Err: err}
	}
	return items, nil
}

// Insert implements registry.Repository.
func (r *Repo) Insert(ctx context.Context, draft registry.Draft, reporterID string) (*model.Item, error) {
	item, err := InsertItem(ctx, r.DB, model.Item{
		Title:        draft.Title,
		Description:  draft.Description,
		Category:     draft.Category,
		Location:     draft.Location,
		DateOccurred: draft.DateOccurred,
		ContactInfo:  draft.ContactInfo,
		ImageURL:     draft.ImageURL,
		Type:         draft.Type,
		ReporterID:   reporterID,
	})
	if err != nil {
		return nil, &registry.InsertError{Err: err}
	}
	return item, nil
}
