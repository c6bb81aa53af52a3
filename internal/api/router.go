package api

import (
	"net/http"

	"github.com/strathmore/lostfound/internal/service"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *service.ItemService) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{Service: svc}
	metaHandler := &MetaHandler{Service: svc, Uploads: svc.Uploads}

	mux.HandleFunc("GET /api/health", metaHandler.Health)
	mux.HandleFunc("GET /api/stats", metaHandler.Stats)
	mux.HandleFunc("GET /api/categories", metaHandler.Categories)
	mux.HandleFunc("GET /api/uploads/{filename}", metaHandler.GetUpload)

	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("PUT /api/items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /api/items/{id}", itemsHandler.Delete)
	mux.HandleFunc("POST /api/items/{id}/resolve", itemsHandler.Resolve)

	return mux
}
