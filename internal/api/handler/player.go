package handler

import (
	"net/http"

	"github.com/mcoot/kafanski-duel/internal/api/middleware"
	"github.com/mcoot/kafanski-duel/internal/api/response"
	"github.com/mcoot/kafanski-duel/internal/catalog"
)

// PlayerHandler handles caller and catalog lookups
type PlayerHandler struct {
	catalog *catalog.Catalog
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(catalog *catalog.Catalog) *PlayerHandler {
	return &PlayerHandler{
		catalog: catalog,
	}
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// ListActions handles GET /api/v1/actions
func (h *PlayerHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.CatalogFromModel(h.catalog))
}
