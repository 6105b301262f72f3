package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// createVendorRequest is the body for POST /vendors.
type createVendorRequest struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// handleListVendors returns all vendors.
func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := s.store.ListVendors(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list vendors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vendors": vendors, "count": len(vendors)})
}

// handleCreateVendor creates a vendor for a name/model pair.
func (s *Server) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	var req createVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	vendor, err := s.store.CreateVendor(r.Context(), req.Name, req.Model)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

// handleGetVendor returns a single vendor by ID.
func (s *Server) handleGetVendor(w http.ResponseWriter, r *http.Request) {
	vendor, err := s.store.GetVendor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

// handleDeleteVendor always answers 409: vendors are permanent once
// created, since capture agents reference them.
func (s *Server) handleDeleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteVendor(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
