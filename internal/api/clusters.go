package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// createClusterRequest is the body for POST /clusters.
type createClusterRequest struct {
	Name      string `json:"name"`
	AdminHost string `json:"admin_host"`
	Env       string `json:"env"`
}

// handleListClusters returns all Opencast clusters.
func (s *Server) handleListClusters(w http.ResponseWriter, r *http.Request) {
	clusters, err := s.store.ListClusters(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list clusters")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clusters": clusters, "count": len(clusters)})
}

// handleCreateCluster creates a cluster.
func (s *Server) handleCreateCluster(w http.ResponseWriter, r *http.Request) {
	var req createClusterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	cluster, err := s.store.CreateCluster(r.Context(), req.Name, req.AdminHost, req.Env)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cluster)
}

// handleGetCluster returns a single cluster by ID.
func (s *Server) handleGetCluster(w http.ResponseWriter, r *http.Request) {
	cluster, err := s.store.GetCluster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cluster)
}

// handleDeleteCluster deletes a cluster and every capture agent
// assigned to it.
func (s *Server) handleDeleteCluster(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCluster(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
