package web

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/core"
	"github.com/JonMunkholm/timetable/internal/logging"
	"github.com/JonMunkholm/timetable/internal/tabular"
)

// handleExport downloads an entity or the schedule.
//
//	GET /api/export/{entity}?format=csv|json|xlsx|pdf&scope=all|current&q=&page=&pageSize=
//	GET /api/export/schedule?format=xlsx&scope=current&filter=lecturer&value=Saleh
//
// The document is rendered into memory first so a failure can still be
// reported as a JSON error.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := parseExportRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	job, err := s.service.Export(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := job.Write(r.Context(), &buf); err != nil {
		respondError(w, r, fmt.Errorf("render %s: %w", job.Filename, err))
		return
	}

	w.Header().Set("Content-Type", job.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": job.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Record-Count", strconv.Itoa(job.Count))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "file", job.Filename, "error", err)
		return
	}

	logging.FromContext(r.Context()).Info("export written",
		"entity", req.Entity,
		"format", req.Format,
		"scope", req.Scope,
		"records", job.Count,
	)
}

func parseExportRequest(r *http.Request) (core.ExportRequest, error) {
	query := r.URL.Query()
	req := core.ExportRequest{Entity: chi.URLParam(r, "entity")}

	var err error
	if req.Format, err = tabular.ParseFormat(query.Get("format")); err != nil {
		return req, err
	}
	if req.Scope, err = tabular.ParseScope(query.Get("scope")); err != nil {
		return req, fmt.Errorf("%v: %w", err, core.ErrInvalidRequest)
	}
	if req.Query, err = parseListQuery(r); err != nil {
		return req, err
	}
	if req.Filter, err = parseScheduleFilter(r); err != nil {
		return req, err
	}
	return req, nil
}

func parseScheduleFilter(r *http.Request) (catalog.ScheduleFilter, error) {
	f, err := catalog.ParseScheduleFilter(r.URL.Query().Get("filter"), r.URL.Query().Get("value"))
	if err != nil {
		return f, fmt.Errorf("%v: %w", err, core.ErrInvalidRequest)
	}
	return f, nil
}
