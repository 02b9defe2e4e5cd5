package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adityabima03/YuhuKopi/internal/service"
	"github.com/adityabima03/YuhuKopi/pkg/httputil"
)

// CatalogHandler serves the coffee menu.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// ListCoffees handles GET /api/coffees
func (h *CatalogHandler) ListCoffees(w http.ResponseWriter, r *http.Request) {
	coffees, err := h.service.ListCoffees(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, coffees)
}

// GetCoffee handles GET /api/coffees/{id}
func (h *CatalogHandler) GetCoffee(w http.ResponseWriter, r *http.Request) {
	coffee, err := h.service.GetCoffee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, coffee)
}
