package api

import (
	"net/http"

	"github.com/strathmore/lostfound/internal/model"
	"github.com/strathmore/lostfound/internal/service"
	"github.com/strathmore/lostfound/internal/upload"
)

// MetaHandler serves the non-item endpoints: health, stats, categories,
// and stored image retrieval.
type MetaHandler struct {
	Service *service.ItemService
	Uploads *upload.Store
}

// Health handles GET /api/health.
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Lost & Found API is running",
	})
}

// Stats handles GET /api/stats.
func (h *MetaHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Categories handles GET /api/categories. The list is advisory; the
// server does not reject other category values.
func (h *MetaHandler) Categories(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{"categories": model.Categories})
}

// GetUpload handles GET /api/uploads/{filename}, serving stored image
// bytes with a content type derived from the file extension.
func (h *MetaHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	path, ok := h.Uploads.Path(r.PathValue("filename"))
	if !ok {
		jsonError(w, http.StatusNotFound, "no such file")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, path)
}
