package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.rules.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rules == nil {
		rules = []core.Rule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule core.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode rule: %v", err)})
		return
	}

	created, err := s.rules.Create(r.Context(), rule)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.forecast.Invalidate()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var rule core.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode rule: %v", err)})
		return
	}

	updated, err := s.rules.Update(r.Context(), id, rule)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.forecast.Invalidate()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.rules.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.forecast.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}
