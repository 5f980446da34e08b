package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.ledger.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if snapshots == nil {
		snapshots = []core.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap core.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode snapshot: %v", err)})
		return
	}

	created, err := s.ledger.Create(r.Context(), snap)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.forecast.Invalidate()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSnapshot(w http.ResponseWriter, r *http.Request) {
	guid := r.PathValue("guid")

	var snap core.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode snapshot: %v", err)})
		return
	}

	updated, err := s.ledger.Update(r.Context(), guid, snap)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.forecast.Invalidate()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	guid := r.PathValue("guid")
	if err := s.ledger.Delete(r.Context(), guid); err != nil {
		writeError(w, r, err)
		return
	}
	s.forecast.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}
