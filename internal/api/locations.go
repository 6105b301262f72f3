package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// createLocationRequest is the body for POST /locations.
type createLocationRequest struct {
	Name string `json:"name"`
}

// handleListLocations returns all locations ordered by name.
func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.store.ListLocations(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list locations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": locations, "count": len(locations)})
}

// handleCreateLocation creates a location.
func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	location, err := s.store.CreateLocation(r.Context(), req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, location)
}

// handleGetLocation returns a single location by ID.
func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	location, err := s.store.GetLocation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

// handleGetLocationByName returns a single location by its unique
// name, for callers that hold the room name rather than the ID.
func (s *Server) handleGetLocationByName(w http.ResponseWriter, r *http.Request) {
	location, err := s.store.GetLocationByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

// handleDeleteLocation deletes a location and every capture agent
// assigned to it.
func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteLocation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
