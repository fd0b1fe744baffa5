package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/finditapp/findit/internal/model"
)

// itemColumns is the column list shared by all item queries.
const itemColumns = `id, title, description, category, location, date_occurred,
	contact_info, image_url, type, status, user_id, created_at`

// InsertItem persists a new report. The store assigns the id, the creation
// timestamp, and the initial active status.
func InsertItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, title, description, category, location, date_occurred,
		                    contact_info, image_url, type, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.Title, item.Description, item.Category, item.Location,
		item.DateOccurred, nullable(item.ContactInfo), nullable(item.ImageURL),
		item.Type, item.ReporterID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns a report by ID.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all reports of the given type and status, newest first.
func ListItems(ctx context.Context, db *sql.DB, itemType, status string) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE type = ? AND status = ?
		 ORDER BY created_at DESC, rowid DESC`,
		itemType, status,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListItemsByReporter returns all reports created by a user, regardless of
// status, newest first.
func ListItemsByReporter(ctx context.Context, db *sql.DB, reporterID string) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		reporterID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items by reporter: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ResolveItem marks a report as resolved. Returns false if the item does not
// exist or is not owned by reporterID.
func ResolveItem(ctx context.Context, db *sql.DB, id, reporterID string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ? AND user_id = ?`,
		model.StatusResolved, id, reporterID,
	)
	if err != nil {
		return false, fmt.Errorf("resolving item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolving item: %w", err)
	}
	return n > 0, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var contactInfo, imageURL sql.NullString
	err := s.Scan(&item.ID, &item.Title, &item.Description, &item.Category,
		&item.Location, &item.DateOccurred, &contactInfo, &imageURL,
		&item.Type, &item.Status, &item.ReporterID, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.ContactInfo = contactInfo.String
	item.ImageURL = imageURL.String
	return item, nil
}

func collectItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// nullable maps empty strings to NULL so optional columns stay absent.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
