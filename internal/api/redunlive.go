package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/avops/captrack/internal/redunlive"
)

// roomStatus is the API representation of one monitored room.
type roomStatus struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	ActiveLivestream string                  `json:"active_livestream"`
	Primary          *redunlive.AgentStatus  `json:"primary,omitempty"`
	Secondary        *redunlive.AgentStatus  `json:"secondary,omitempty"`
	Experimental     []redunlive.AgentStatus `json:"experimental,omitempty"`
}

// publishRequest is the body for POST /redunlive/agents/{serial}/publish.
type publishRequest struct {
	Status string `json:"status"`
}

// liveState guards the optional live graph; nil answers 503 so the
// inventory API stays usable when monitoring is not configured.
func (s *Server) liveState(w http.ResponseWriter) *redunlive.MapResult {
	if s.live == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "live status monitoring not configured")
		return nil
	}
	return s.live
}

// handleLiveLocations returns the status of every monitored room.
func (s *Server) handleLiveLocations(w http.ResponseWriter, _ *http.Request) {
	live := s.liveState(w)
	if live == nil {
		return
	}

	rooms := make([]roomStatus, 0, len(live.Locations))
	for _, location := range live.Locations {
		rooms = append(rooms, buildRoomStatus(location))
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	writeJSON(w, http.StatusOK, map[string]any{"locations": rooms, "count": len(rooms)})
}

// handleLiveAgents returns the last known status of every capture agent.
func (s *Server) handleLiveAgents(w http.ResponseWriter, _ *http.Request) {
	live := s.liveState(w)
	if live == nil {
		return
	}

	agents := make([]redunlive.AgentStatus, 0, len(live.Agents))
	for _, agent := range live.Agents {
		agents = append(agents, agent.Snapshot())
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Serial < agents[j].Serial })

	writeJSON(w, http.StatusOK, map[string]any{"agents": agents, "count": len(agents)})
}

// handleLiveAgent returns one agent's status by serial number.
func (s *Server) handleLiveAgent(w http.ResponseWriter, r *http.Request) {
	agent := s.lookupAgent(w, r)
	if agent == nil {
		return
	}
	writeJSON(w, http.StatusOK, agent.Snapshot())
}

// handleSyncAgent runs an immediate reconciliation pass for one agent.
func (s *Server) handleSyncAgent(w http.ResponseWriter, r *http.Request) {
	agent := s.lookupAgent(w, r)
	if agent == nil {
		return
	}

	agent.SyncLiveStatus(r.Context())
	writeJSON(w, http.StatusOK, agent.Snapshot())
}

// handlePublishAgent forces both of an agent's channels to the
// requested publish status.
func (s *Server) handlePublishAgent(w http.ResponseWriter, r *http.Request) {
	agent := s.lookupAgent(w, r)
	if agent == nil {
		return
	}

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Status == "" {
		writeBadRequest(w, "status is required")
		return
	}

	agent.WriteLiveStatus(r.Context(), req.Status)
	writeJSON(w, http.StatusOK, agent.Snapshot())
}

// lookupAgent resolves the {serial} route parameter, writing the error
// response itself when the agent cannot be served.
func (s *Server) lookupAgent(w http.ResponseWriter, r *http.Request) *redunlive.CaptureAgent {
	live := s.liveState(w)
	if live == nil {
		return nil
	}

	agent, ok := live.Agents[chi.URLParam(r, "serial")]
	if !ok {
		writeNotFound(w, "capture agent not found")
		return nil
	}
	return agent
}

// buildRoomStatus snapshots one room's agents.
func buildRoomStatus(location *redunlive.CaLocation) roomStatus {
	room := roomStatus{
		ID:               location.ID(),
		Name:             location.Name(),
		ActiveLivestream: location.ActiveLivestream(),
	}
	if primary := location.Primary(); primary != nil {
		status := primary.Snapshot()
		room.Primary = &status
	}
	if secondary := location.Secondary(); secondary != nil {
		status := secondary.Snapshot()
		room.Secondary = &status
	}
	for _, agent := range location.Experimental() {
		room.Experimental = append(room.Experimental, agent.Snapshot())
	}
	return room
}
