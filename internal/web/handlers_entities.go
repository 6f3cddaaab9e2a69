package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/core"
)

// maxPayloadSize bounds JSON request bodies.
const maxPayloadSize = 1 << 20

type entitySummary struct {
	catalog.Info
	Count int `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.service.ImportStatus(),
	})
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	counts, err := s.service.Counts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	infos := s.service.Entities()
	out := make([]entitySummary, len(infos))
	for i, info := range infos {
		out[i] = entitySummary{Info: info, Count: counts[info.Key]}
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	page, err := s.service.List(r.Context(), chi.URLParam(r, "entity"), q)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.Get(r.Context(), chi.URLParam(r, "entity"), chi.URLParam(r, "key"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := s.service.Create(r.Context(), chi.URLParam(r, "entity"), payload)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rec)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := s.service.Update(r.Context(), chi.URLParam(r, "entity"), chi.URLParam(r, "key"), payload)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), chi.URLParam(r, "entity"), chi.URLParam(r, "key")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseListQuery reads q, page and pageSize. Absent values take the defaults.
func parseListQuery(r *http.Request) (core.ListQuery, error) {
	q := core.ListQuery{Search: r.URL.Query().Get("q")}

	var err error
	if q.Page, err = intParam(r, "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = intParam(r, "pageSize"); err != nil {
		return q, err
	}
	return q, nil
}

// intParam parses an optional positive integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return 0, fmt.Errorf("%s=%q: %w", name, val, core.ErrInvalidRequest)
	}
	return i, nil
}

func readPayload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("payload: %w", core.ErrInvalidPayload)
		}
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return body, nil
}
