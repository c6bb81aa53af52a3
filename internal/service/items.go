package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/strathmore/lostfound/internal/model"
	"github.com/strathmore/lostfound/internal/store"
	"github.com/strathmore/lostfound/internal/upload"
)

// ErrNotFound is returned when the referenced item id does not exist.
var ErrNotFound = errors.New("item not found")

// ValidationError aggregates every violated input constraint, not just
// the first one found.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// ItemInput carries the creation form fields. Everything except
// ContactPhone is required.
type ItemInput struct {
	Title         string
	Description   string
	Category      string
	Status        string
	Location      string
	DateLostFound string
	ContactName   string
	ContactEmail  string
	ContactPhone  string
}

// ItemService owns the lost-and-found business rules, delegating file
// handling to the upload store and persistence to the item store.
type ItemService struct {
	DB      *sql.DB
	Uploads *upload.Store
}

// Create validates the input, stores the optional image, and persists the
// item. All validation failures are reported together before any state
// changes. A nil image reader means "no image"; an upload with an
// unsupported extension is skipped (the item is created without one), but
// a failed write of accepted image data aborts the create.
func (s *ItemService) Create(ctx context.Context, in ItemInput, image io.Reader, filename string) (*model.Item, error) {
	if errs := validateInput(in); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	var imageFilename string
	if image != nil {
		key, err := s.Uploads.Save(image, filename)
		switch {
		case errors.Is(err, upload.ErrUnsupportedType):
			slog.Warn("ignoring upload with unsupported extension", "filename", filename)
		case err != nil:
			return nil, fmt.Errorf("storing image: %w", err)
		default:
			imageFilename = key
		}
	}

	item, err := store.CreateItem(ctx, s.DB, model.Item{
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Status:        in.Status,
		Location:      in.Location,
		DateLostFound: in.DateLostFound,
		ContactName:   in.ContactName,
		ContactEmail:  in.ContactEmail,
		ContactPhone:  in.ContactPhone,
		ImageFilename: imageFilename,
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies a partial update. Present fields are validated with the
// creation rules before anything is written. A replacement image is
// stored first and the old file deleted only after success; if storing
// the new image fails, the existing image reference is kept and the rest
// of the update proceeds.
func (s *ItemService) Update(ctx context.Context, id int64, patch model.ItemPatch, image io.Reader, filename string) (*model.Item, error) {
	existing, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if errs := validatePatch(patch); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	if image != nil {
		key, err := s.Uploads.Save(image, filename)
		if err != nil {
			// Non-fatal: the image assignment simply does not change.
			slog.Warn("replacement image not stored, keeping current image",
				"id", id, "filename", filename, "error", err)
		} else {
			if existing.ImageFilename != "" {
				s.Uploads.Delete(existing.ImageFilename)
			}
			patch.ImageFilename = &key
		}
	}

	if err := store.UpdateItem(ctx, s.DB, id, patch); err != nil {
		return nil, err
	}
	return store.GetItem(ctx, s.DB, id)
}

// Resolve marks an item as resolved. Resolving an already-resolved item
// is a no-op success.
func (s *ItemService) Resolve(ctx context.Context, id int64) (*model.Item, error) {
	existing, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	resolved := true
	if err := store.UpdateItem(ctx, s.DB, id, model.ItemPatch{IsResolved: &resolved}); err != nil {
		return nil, err
	}
	return store.GetItem(ctx, s.DB, id)
}

// Delete removes the item record and then its stored image, if any.
// Image-file deletion failures never block the record deletion.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	existing, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := store.DeleteItem(ctx, s.DB, id); err != nil {
		return err
	}

	if existing.ImageFilename != "" && !s.Uploads.Delete(existing.ImageFilename) {
		slog.Warn("stored image not removed with item", "id", id, "key", existing.ImageFilename)
	}
	return nil
}

// Get returns a single item.
func (s *ItemService) Get(ctx context.Context, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// List returns one page of items matching the filter plus the total
// match count.
func (s *ItemService) List(ctx context.Context, filter store.ItemFilter) ([]model.Item, int, error) {
	return store.QueryItems(ctx, s.DB, filter)
}

// Stats returns the counts snapshot. The success rate is
// resolved/total*100 rounded to one decimal, and 0 for an empty board.
func (s *ItemService) Stats(ctx context.Context) (model.Stats, error) {
	stats, err := store.CountsByStatus(ctx, s.DB)
	if err != nil {
		return model.Stats{}, err
	}
	if stats.TotalItems > 0 {
		rate := float64(stats.ResolvedItems) / float64(stats.TotalItems) * 100
		stats.SuccessRate = math.Round(rate*10) / 10
	}
	return stats, nil
}

// requiredFields maps the creation form field names, in reporting order.
var requiredFields = []struct {
	name  string
	value func(ItemInput) string
}{
	{"title", func(in ItemInput) string { return in.Title }},
	{"description", func(in ItemInput) string { return in.Description }},
	{"category", func(in ItemInput) string { return in.Category }},
	{"status", func(in ItemInput) string { return in.Status }},
	{"location", func(in ItemInput) string { return in.Location }},
	{"date_lost_found", func(in ItemInput) string { return in.DateLostFound }},
	{"contact_name", func(in ItemInput) string { return in.ContactName }},
	{"contact_email", func(in ItemInput) string { return in.ContactEmail }},
}

// validateInput checks a full creation input and returns one message per
// violated constraint.
func validateInput(in ItemInput) []string {
	var errs []string
	for _, f := range requiredFields {
		if f.value(in) == "" {
			errs = append(errs, "Missing required field: "+f.name)
		}
	}
	if in.Status != "" && !model.ValidStatus(in.Status) {
		errs = append(errs, `Status must be either "lost" or "found"`)
	}
	if in.ContactEmail != "" && !strings.Contains(in.ContactEmail, "@") {
		errs = append(errs, "Invalid email format")
	}
	if in.DateLostFound != "" && !validDate(in.DateLostFound) {
		errs = append(errs, "Invalid date format. Use YYYY-MM-DD")
	}
	return errs
}

// validatePatch applies the creation rules to whichever fields the patch
// carries; absent fields are not checked.
func validatePatch(patch model.ItemPatch) []string {
	var errs []string
	check := func(name string, value *string) {
		if value != nil && *value == "" {
			errs = append(errs, "Missing required field: "+name)
		}
	}
	check("title", patch.Title)
	check("description", patch.Description)
	check("category", patch.Category)
	check("status", patch.Status)
	check("location", patch.Location)
	check("date_lost_found", patch.DateLostFound)
	check("contact_name", patch.ContactName)
	check("contact_email", patch.ContactEmail)

	if patch.Status != nil && *patch.Status != "" && !model.ValidStatus(*patch.Status) {
		errs = append(errs, `Status must be either "lost" or "found"`)
	}
	if patch.ContactEmail != nil && *patch.ContactEmail != "" && !strings.Contains(*patch.ContactEmail, "@") {
		errs = append(errs, "Invalid email format")
	}
	if patch.DateLostFound != nil && *patch.DateLostFound != "" && !validDate(*patch.DateLostFound) {
		errs = append(errs, "Invalid date format. Use YYYY-MM-DD")
	}
	return errs
}

func validDate(s string) bool {
	_, err := time.Parse(model.DateLostFoundLayout, s)
	return err == nil
}
