package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/kafanski-duel/internal/api/middleware"
	"github.com/mcoot/kafanski-duel/internal/api/request"
	"github.com/mcoot/kafanski-duel/internal/api/response"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/challenge"
	"github.com/mcoot/kafanski-duel/internal/services/gateway"
)

// DuelHandler handles challenge and duel endpoints
type DuelHandler struct {
	lifecycle challenge.ManagerInterface
	gateway   gateway.ServiceInterface
}

// NewDuelHandler creates a new duel handler
func NewDuelHandler(lifecycle challenge.ManagerInterface, gateway gateway.ServiceInterface) *DuelHandler {
	return &DuelHandler{
		lifecycle: lifecycle,
		gateway:   gateway,
	}
}

func duelID(r *http.Request) model.DuelID {
	return model.DuelID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/duels
func (h *DuelHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateDuelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	opponent := strings.TrimSpace(req.OpponentID)
	if opponent == "" {
		WriteError(w, NewInvalidRequestError("opponent_id is required"))
		return
	}

	d, err := h.lifecycle.CreateChallenge(r.Context(), player.ID, model.PlayerID(opponent))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeView(w, r, http.StatusCreated, d.ID, player.ID)
}

// List handles GET /api/v1/duels
func (h *DuelHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	lobby, err := h.gateway.ListActive(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// Get handles GET /api/v1/duels/{id}
func (h *DuelHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	h.writeView(w, r, http.StatusOK, duelID(r), player.ID)
}

// Accept handles POST /api/v1/duels/{id}/accept
func (h *DuelHandler) Accept(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if _, err := h.lifecycle.AcceptChallenge(r.Context(), duelID(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	h.writeView(w, r, http.StatusOK, duelID(r), player.ID)
}

// Decline handles POST /api/v1/duels/{id}/decline
func (h *DuelHandler) Decline(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if _, err := h.lifecycle.DeclineChallenge(r.Context(), duelID(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	h.writeView(w, r, http.StatusOK, duelID(r), player.ID)
}

// SubmitAction handles POST /api/v1/duels/{id}/actions
func (h *DuelHandler) SubmitAction(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.SubmitActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Action == "" {
		WriteError(w, NewInvalidRequestError("action is required"))
		return
	}

	result, err := h.gateway.SubmitAction(r.Context(), duelID(r), player.ID, req.Action)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ActionResultFromView(result))
}

// Surrender handles POST /api/v1/duels/{id}/surrender
func (h *DuelHandler) Surrender(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	view, err := h.gateway.Surrender(r.Context(), duelID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DuelFromView(view))
}

func (h *DuelHandler) writeView(w http.ResponseWriter, r *http.Request, status int, id model.DuelID, caller model.PlayerID) {
	view, err := h.gateway.GetState(r.Context(), id, caller)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.DuelFromView(view))
}
