package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// createCaRequest is the body for POST /cas.
type createCaRequest struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	VendorID     string `json:"vendor_id"`
	SerialNumber string `json:"serial_number"`
}

// setCaptureCardRequest is the body for PUT /cas/{id}/capture-card.
type setCaptureCardRequest struct {
	CaptureCardID int `json:"capture_card_id"`
}

// handleListCas returns all capture agents.
func (s *Server) handleListCas(w http.ResponseWriter, r *http.Request) {
	cas, err := s.store.ListCas(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list capture agents")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cas": cas, "count": len(cas)})
}

// handleCreateCa creates a capture agent.
func (s *Server) handleCreateCa(w http.ResponseWriter, r *http.Request) {
	var req createCaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	ca, err := s.store.CreateCa(r.Context(), req.Name, req.Address, req.VendorID, req.SerialNumber)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ca)
}

// handleGetCa returns a single capture agent by ID.
func (s *Server) handleGetCa(w http.ResponseWriter, r *http.Request) {
	ca, err := s.store.GetCa(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ca)
}

// handleUpdateCa applies a partial update. The body is a flat map of
// field name to new value; only name, address and serial_number are
// updatable, anything else is rejected whole.
func (s *Server) handleUpdateCa(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	ca, err := s.store.UpdateCa(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ca)
}

// handleDeleteCa deletes a capture agent and its configuration rows.
func (s *Server) handleDeleteCa(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCa(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleSetCaptureCard records which capture card slot drives the
// agent's video sources.
func (s *Server) handleSetCaptureCard(w http.ResponseWriter, r *http.Request) {
	var req setCaptureCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.store.SetCaptureCardID(r.Context(), chi.URLParam(r, "id"), req.CaptureCardID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleGetCaRole returns the agent's role assignment.
func (s *Server) handleGetCaRole(w http.ResponseWriter, r *http.Request) {
	role, err := s.store.GetRoleByCa(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

// handleEnsureConfigDefaults seeds the default configuration bags
// (channels, recorder, capture settings) for the agent. Idempotent.
func (s *Server) handleEnsureConfigDefaults(w http.ResponseWriter, r *http.Request) {
	if s.builder == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "config builder not available")
		return
	}

	if err := s.builder.EnsureDefaults(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleBuildConfig renders the agent's full device configuration
// document.
func (s *Server) handleBuildConfig(w http.ResponseWriter, r *http.Request) {
	if s.builder == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "config builder not available")
		return
	}

	doc, err := s.builder.Build(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
