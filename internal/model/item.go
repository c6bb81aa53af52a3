package model

import (
	"encoding/json"
	"time"
)

// Item represents a single lost or found report.
type Item struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Status        string    `json:"status"`
	Location      string    `json:"location"`
	DateReported  time.Time `json:"date_reported"`
	DateLostFound string    `json:"date_lost_found"`
	ContactName   string    `json:"contact_name"`
	ContactEmail  string    `json:"contact_email"`
	ContactPhone  string    `json:"contact_phone"`
	ImageFilename string    `json:"-"`
	IsResolved    bool      `json:"is_resolved"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UploadPathPrefix is the public retrieval path for stored images.
const UploadPathPrefix = "/api/uploads/"

// MarshalJSON renders the API representation: the stored filename is never
// exposed directly, only as a constructed retrieval path (null when the
// item has no image).
func (i Item) MarshalJSON() ([]byte, error) {
	type alias Item
	var imageURL *string
	if i.ImageFilename != "" {
		url := UploadPathPrefix + i.ImageFilename
		imageURL = &url
	}
	return json.Marshal(struct {
		alias
		ImageURL *string `json:"image_url"`
	}{alias(i), imageURL})
}

// ItemPatch carries a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Title         *string
	Description   *string
	Category      *string
	Status        *string
	Location      *string
	DateLostFound *string
	ContactName   *string
	ContactEmail  *string
	ContactPhone  *string
	ImageFilename *string
	IsResolved    *bool
}

// Item statuses.
const (
	StatusLost  = "lost"
	StatusFound = "found"
)

// ValidStatus reports whether s is a known item status.
func ValidStatus(s string) bool {
	return s == StatusLost || s == StatusFound
}

// DateLostFoundLayout is the calendar date format for date_lost_found.
const DateLostFoundLayout = "2006-01-02"

// Categories is the advisory list of item categories. The server does not
// enforce it; clients use it to populate pickers.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Accessories",
	"Keys",
	"Documents",
	"Sports Equipment",
	"Other",
}

// Stats is a summary of report counts. Lost and found count only
// unresolved items.
type Stats struct {
	TotalItems    int     `json:"total_items"`
	LostItems     int     `json:"lost_items"`
	FoundItems    int     `json:"found_items"`
	ResolvedItems int     `json:"resolved_items"`
	SuccessRate   float64 `json:"success_rate"`
}
