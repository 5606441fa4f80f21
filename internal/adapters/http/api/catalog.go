package api

import (
	"net/http"

	"github.com/okian/classplay/internal/domain/catalog"
)

type catalogResponse struct {
	catalog.Catalog
	Kinds []string `json:"kinds"`
}

// CatalogHandler serves the screen content.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleGetCatalog handles GET /api/catalog.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{Catalog: h.deps.Catalog(), Kinds: h.deps.Kinds()})
}
