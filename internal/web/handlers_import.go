package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/timetable/internal/core"
)

// uploadedFile is the "file" part of a multipart import request.
type uploadedFile struct {
	name string
	file multipart.File
}

// readUpload extracts the uploaded file, enforcing the configured size limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*uploadedFile, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("limit %d bytes: %w", maxSize, core.ErrFileTooLarge)
		}
		return nil, fmt.Errorf("multipart form: %v: %w", err, core.ErrInvalidRequest)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, core.ErrNoFile
		}
		return nil, fmt.Errorf("form file: %v: %w", err, core.ErrInvalidRequest)
	}
	return &uploadedFile{name: header.Filename, file: file}, nil
}

// handleStartImport opens an import session with the uploaded file. When the
// file is rejected the session is still created; the response carries the
// session with its error so the client can upload another file into it.
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer up.file.Close()

	sess, err := s.service.StartImport(withRequestMetadata(r), chi.URLParam(r, "entity"), up.name, up.file)
	s.respondSession(w, r, sess, err)
}

// handleUploadImport uploads a new file into a session waiting for one.
func (s *Server) handleUploadImport(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer up.file.Close()

	sess, err := s.service.UploadFile(withRequestMetadata(r), chi.URLParam(r, "id"), up.name, up.file)
	s.respondSession(w, r, sess, err)
}

func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.ImportSessionByID(chi.URLParam(r, "id"))
	s.respondSession(w, r, sess, err)
}

func (s *Server) handleConfirmImport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.ConfirmImport(withRequestMetadata(r), chi.URLParam(r, "id"))
	s.respondSession(w, r, sess, err)
}

func (s *Server) handleResetImport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.ResetImport(withRequestMetadata(r), chi.URLParam(r, "id"))
	s.respondSession(w, r, sess, err)
}

// respondSession writes the session state. Errors that leave a session behind
// are returned with the session body and the error's status.
func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, sess *core.ImportSession, err error) {
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, sess)
	case sess == nil:
		respondError(w, r, err)
	default:
		ue := core.NewUserError(err)
		status := statusFor(err)
		logRequestError(r, ue, status)
		if sess.Error == nil {
			sess.Error = &ue.User
		}
		writeJSON(w, r, status, sess)
	}
}

