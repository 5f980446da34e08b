package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/export"
)

type forecastResponse struct {
	MonthsAhead int                `json:"months_ahead"`
	Rows        []core.TimelineRow `json:"rows"`
}

type summaryResponse struct {
	Rules []string `json:"rules"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	months := parseMonths(r, s.defaultMonths, s.maxMonths)
	rows, err := s.forecast.Timeline(r.Context(), months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []core.TimelineRow{}
	}
	writeJSON(w, http.StatusOK, forecastResponse{MonthsAhead: months, Rows: rows})
}

func (s *Server) handleForecastExport(w http.ResponseWriter, r *http.Request) {
	months := parseMonths(r, s.defaultMonths, s.maxMonths)
	rows, err := s.forecast.Timeline(r.Context(), months)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Build the workbook in memory first so header errors never produce a
	// half-written download.
	var buf bytes.Buffer
	if err := export.WriteTimeline(&buf, s.forecast.Registry(), rows); err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("forecast_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleForecastSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.forecast.Summaries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []string{}
	}
	writeJSON(w, http.StatusOK, summaryResponse{Rules: summaries})
}
