package web

import (
	"net/http"

	"github.com/JonMunkholm/timetable/internal/catalog"
)

type scheduleResponse struct {
	Filter catalog.ScheduleFilter `json:"filter"`
	Rows   []catalog.ScheduleRow  `json:"rows"`
	Count  int                    `json:"count"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	filter, err := parseScheduleFilter(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := s.service.Schedule(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, scheduleResponse{Filter: filter, Rows: rows, Count: len(rows)})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.service.Summary(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}
