package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/strathmore/lostfound/internal/model"
)

const itemColumns = `id, title, description, category, status, location,
	date_reported, date_lost_found, contact_name, contact_email,
	contact_phone, image_filename, is_resolved, created_at, updated_at`

// ItemFilter is a conjunction of optional listing predicates plus
// pagination. Zero values mean "no constraint"; resolved items are
// excluded unless IncludeResolved is set.
type ItemFilter struct {
	Status          string
	Category        string
	Search          string
	IncludeResolved bool
	Page            int
	PerPage         int
}

// DefaultPerPage is the page size used when the caller does not set one.
const DefaultPerPage = 10

// CreateItem inserts a new item. The id, date_reported, created_at and
// updated_at fields are assigned server-side; the returned record carries
// them.
func CreateItem(ctx context.Context, db *sql.DB, draft model.Item) (*model.Item, error) {
	var image any
	if draft.ImageFilename != "" {
		image = draft.ImageFilename
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, category, status, location,
		                    date_lost_found, contact_name, contact_email,
		                    contact_phone, image_filename)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.Title, draft.Description, draft.Category, draft.Status,
		draft.Location, draft.DateLostFound, draft.ContactName,
		draft.ContactEmail, draft.ContactPhone, image,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil when no such item exists.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
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

// UpdateItem applies the non-nil fields of patch to an item. The
// updated_at timestamp is always refreshed; created_at and date_reported
// are never touched.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, patch model.ItemPatch) error {
	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.DateLostFound != nil {
		set("date_lost_found", *patch.DateLostFound)
	}
	if patch.ContactName != nil {
		set("contact_name", *patch.ContactName)
	}
	if patch.ContactEmail != nil {
		set("contact_email", *patch.ContactEmail)
	}
	if patch.ContactPhone != nil {
		set("contact_phone", *patch.ContactPhone)
	}
	if patch.ImageFilename != nil {
		if *patch.ImageFilename == "" {
			set("image_filename", nil)
		} else {
			set("image_filename", *patch.ImageFilename)
		}
	}
	if patch.IsResolved != nil {
		set("is_resolved", *patch.IsResolved)
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	_, err := db.ExecContext(ctx,
		`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item record.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// QueryItems returns one page of items matching the filter, most recently
// reported first (ties broken by id, descending, for determinism), plus
// the total match count before pagination.
func QueryItems(ctx context.Context, db *sql.DB, filter ItemFilter) ([]model.Item, int, error) {
	var where []string
	var args []any

	if !filter.IncludeResolved {
		where = append(where, "is_resolved = 0")
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		// SQLite LIKE is case-insensitive for ASCII.
		where = append(where, "(title LIKE ? OR description LIKE ? OR location LIKE ?)")
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}

	var clause string
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items`+clause, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting items: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items`+clause+
			` ORDER BY date_reported DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, perPage, (page-1)*perPage)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

// CountsByStatus returns the report counts for the stats endpoint. Lost
// and found only count unresolved items; the success rate is left for the
// caller to derive.
func CountsByStatus(ctx context.Context, db *sql.DB) (model.Stats, error) {
	var stats model.Stats
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'lost' AND is_resolved = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'found' AND is_resolved = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN is_resolved = 1 THEN 1 ELSE 0 END), 0)
		 FROM items`,
	).Scan(&stats.TotalItems, &stats.LostItems, &stats.FoundItems, &stats.ResolvedItems)
	if err != nil {
		return model.Stats{}, fmt.Errorf("counting items by status: %w", err)
	}
	return stats, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var image sql.NullString
	err := s.Scan(
		&item.ID, &item.Title, &item.Description, &item.Category,
		&item.Status, &item.Location, &item.DateReported,
		&item.DateLostFound, &item.ContactName, &item.ContactEmail,
		&item.ContactPhone, &image, &item.IsResolved,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.ImageFilename = image.String
	return item, nil
}
