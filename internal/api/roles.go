package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// createRoleRequest is the body for POST /roles.
type createRoleRequest struct {
	CaID       string `json:"ca_id"`
	LocationID string `json:"location_id"`
	ClusterID  string `json:"cluster_id"`
	Name       string `json:"name"`
}

// handleListRoles returns every role assignment.
func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := s.store.ListRoles(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list roles")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roles": roles, "count": len(roles)})
}

// handleCreateRole assigns a capture agent to a location and cluster
// under a role name.
func (s *Server) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	role, err := s.store.CreateRole(r.Context(), req.CaID, req.LocationID, req.ClusterID, req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, role)
}

// handleUpdateRole rejects every update. Role bindings are immutable;
// reassigning an agent means deleting it and creating a new role.
func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	if err := s.store.UpdateRole(r.Context(), chi.URLParam(r, "caID")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
