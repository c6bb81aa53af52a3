package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/strathmore/lostfound/internal/model"
	"github.com/strathmore/lostfound/internal/service"
	"github.com/strathmore/lostfound/internal/store"
)

// maxUploadSize caps request bodies carrying image uploads (16 MB).
const maxUploadSize = 16 << 20

// maxPerPage caps the requested page size.
const maxPerPage = 100

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	Service *service.ItemService
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.ItemFilter{
		Status:          q.Get("status"),
		Category:        q.Get("category"),
		Search:          q.Get("search"),
		IncludeResolved: q.Get("include_resolved") == "true",
		Page:            intParam(q.Get("page"), 1),
		PerPage:         intParam(q.Get("per_page"), store.DefaultPerPage),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = store.DefaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}

	items, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	pages := 0
	if total > 0 {
		pages = (total + filter.PerPage - 1) / filter.PerPage
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"items":        items,
		"total":        total,
		"pages":        pages,
		"current_page": filter.Page,
		"per_page":     filter.PerPage,
	})
}

// Create handles POST /api/items. The body is a multipart form with the
// item fields plus an optional "image" file part.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseItemForm(w, r) {
		return
	}

	in := service.ItemInput{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Category:      r.FormValue("category"),
		Status:        r.FormValue("status"),
		Location:      r.FormValue("location"),
		DateLostFound: r.FormValue("date_lost_found"),
		ContactName:   r.FormValue("contact_name"),
		ContactEmail:  r.FormValue("contact_email"),
		ContactPhone:  r.FormValue("contact_phone"),
	}

	image, filename, cleanup := imagePart(r)
	defer cleanup()

	item, err := h.Service.Create(r.Context(), in, image, filename)
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonValidationErrors(w, verr.Errors)
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to create item")
	default:
		jsonResponse(w, http.StatusCreated, map[string]any{
			"message": "Item created successfully",
			"item":    item,
		})
	}
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.Service.Get(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to get item")
	default:
		jsonResponse(w, http.StatusOK, item)
	}
}

// Update handles PUT /api/items/{id}. Only the form fields present in the
// request are applied; an "image" file part replaces the stored image.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if !parseItemForm(w, r) {
		return
	}

	patch := model.ItemPatch{
		Title:         formValue(r, "title"),
		Description:   formValue(r, "description"),
		Category:      formValue(r, "category"),
		Status:        formValue(r, "status"),
		Location:      formValue(r, "location"),
		DateLostFound: formValue(r, "date_lost_found"),
		ContactName:   formValue(r, "contact_name"),
		ContactEmail:  formValue(r, "contact_email"),
		ContactPhone:  formValue(r, "contact_phone"),
	}
	if v := formValue(r, "is_resolved"); v != nil {
		resolved := strings.EqualFold(*v, "true")
		patch.IsResolved = &resolved
	}

	image, filename, cleanup := imagePart(r)
	defer cleanup()

	item, err := h.Service.Update(r.Context(), id, patch, image, filename)
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
	case errors.As(err, &verr):
		jsonValidationErrors(w, verr.Errors)
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to update item")
	default:
		jsonResponse(w, http.StatusOK, map[string]any{
			"message": "Item updated successfully",
			"item":    item,
		})
	}
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	err := h.Service.Delete(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
	default:
		jsonResponse(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
	}
}

// Resolve handles POST /api/items/{id}/resolve.
func (h *ItemsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.Service.Resolve(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to resolve item")
	default:
		jsonResponse(w, http.StatusOK, map[string]any{
			"message": "Item marked as resolved",
			"item":    item,
		})
	}
}

// itemID parses the {id} path value, writing a 400 on failure.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

// parseItemForm parses the request form, accepting both multipart (for
// image uploads) and urlencoded bodies. Writes a 400 and returns false on
// malformed input.
func parseItemForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && err != http.ErrNotMultipart {
		jsonError(w, http.StatusBadRequest, "file too large or invalid form data")
		return false
	}
	return true
}

// formValue returns the form field value when the field was present in
// the request, nil otherwise. Presence drives partial updates.
func formValue(r *http.Request, key string) *string {
	if values, ok := r.PostForm[key]; ok && len(values) > 0 {
		return &values[0]
	}
	return nil
}

// imagePart extracts the optional "image" file from a multipart form.
// Returns a nil reader when no file was uploaded.
func imagePart(r *http.Request) (io.Reader, string, func()) {
	if r.MultipartForm == nil {
		return nil, "", func() {}
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", func() {}
	}
	if header.Filename == "" {
		file.Close()
		return nil, "", func() {}
	}
	return file, header.Filename, func() { file.Close() }
}

// intParam parses an integer query parameter, falling back to def when
// absent or malformed.
func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
