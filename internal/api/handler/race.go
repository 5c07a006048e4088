package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/regattadev/boatrace/internal/api/middleware"
	"github.com/regattadev/boatrace/internal/api/response"
	"github.com/regattadev/boatrace/internal/model"
	"github.com/regattadev/boatrace/internal/session"
	"github.com/regattadev/boatrace/internal/storage"
)

// RaceHandler handles race-related endpoints
type RaceHandler struct {
	registry *session.Registry
	store    storage.Storage
}

// NewRaceHandler creates a new race handler
func NewRaceHandler(registry *session.Registry, store storage.Storage) *RaceHandler {
	return &RaceHandler{
		registry: registry,
		store:    store,
	}
}

// Create handles POST /api/v1/races
func (h *RaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	race, err := h.registry.Create(r.Context(), account.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RaceFromModel(race))
}

// List handles GET /api/v1/races
func (h *RaceHandler) List(w http.ResponseWriter, r *http.Request) {
	races, err := h.store.ListRaces(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RaceListFromModels(races))
}

// Join handles POST /api/v1/races/{id}/join. It adds the caller to the
// roster without a live connection; opening the websocket later refreshes
// the same player record.
func (h *RaceHandler) Join(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	id := model.RaceID(mux.Vars(r)["id"])

	race, _, err := h.registry.Dispatch(r.Context(), id, model.JoinCommand{
		UserID: account.ID,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RaceFromModel(race))
}

// Get handles GET /api/v1/races/{id}
func (h *RaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RaceID(mux.Vars(r)["id"])

	// Prefer the live session state; fall back to the stored snapshot for
	// races whose session has already been removed.
	sess, err := h.registry.Get(id)
	if err == nil {
		response.JSON(w, http.StatusOK, response.RaceFromModel(sess.Snapshot()))
		return
	}
	if !errors.Is(err, model.ErrRaceNotFound) {
		WriteError(w, err)
		return
	}

	race, err := h.store.GetRace(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RaceFromModel(race))
}
