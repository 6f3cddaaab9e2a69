package core

// imports.go runs the import dialog as a server-side state machine:
//
//	upload --(file parsed, rows accepted)--> preview --(confirm)--> done
//	   ^                                        |
//	   +-----------------(reset)----------------+
//
// A failed upload leaves the session in upload with the error attached, so
// the client can show the message and try another file. Sessions that are
// not touched for the session TTL are discarded.

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/logging"
	"github.com/JonMunkholm/timetable/internal/tabular"
)

// ImportStep is the state of an import session.
type ImportStep string

const (
	StepUpload  ImportStep = "upload"
	StepPreview ImportStep = "preview"
	StepDone    ImportStep = "done"
)

type importSession struct {
	mu sync.Mutex

	id       string
	entity   string
	clientIP string

	step     ImportStep
	fileName string
	headers  []string
	missing  []string
	outcome  *tabular.Outcome[catalog.Record]
	repeated int // accepted records whose key is already stored or repeats in the file
	inserted int
	err      error

	createdAt time.Time
	touched   atomic.Int64 // unix nanos of the last change, read without mu
}

func (sess *importSession) touch(t time.Time) { sess.touched.Store(t.UnixNano()) }

func (sess *importSession) updatedAt() time.Time { return time.Unix(0, sess.touched.Load()) }

// ImportSession is a snapshot of an import for clients.
type ImportSession struct {
	ID       string     `json:"id"`
	Entity   string     `json:"entity"`
	Step     ImportStep `json:"step"`
	FileName string     `json:"fileName,omitempty"`

	// Headers are the distinct headers found in the file.
	Headers []string `json:"headers,omitempty"`
	// MissingFields lists required fields no header could be matched to.
	MissingFields []string `json:"missingFields,omitempty"`

	Accepted   int `json:"accepted"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	Inserted   int `json:"inserted"`

	Columns []tabular.Column `json:"columns,omitempty"`
	Sample  []catalog.Record `json:"sample,omitempty"`

	Error *UserMessage `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StartImport opens a session for entity and uploads the first file into it.
// The session is returned even when the upload fails; the error is also
// recorded on the session.
func (s *Service) StartImport(ctx context.Context, entity, fileName string, r io.Reader) (*ImportSession, error) {
	def, err := s.Definition(entity)
	if err != nil {
		return nil, err
	}
	if !def.Importable() {
		return nil, fmt.Errorf("%s: %w", entity, ErrImportNotSupported)
	}

	now := s.now()
	sess := &importSession{
		id:        uuid.NewString(),
		entity:    entity,
		clientIP:  ClientIPFromContext(ctx),
		step:      StepUpload,
		createdAt: now,
	}
	sess.touch(now)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	logging.WithFields(ctx, "import_id", sess.id, "entity", entity, "client_ip", sess.clientIP).
		Info("import session opened")

	sess.mu.Lock()
	defer sess.mu.Unlock()
	err = s.upload(ctx, sess, def, fileName, r)
	return s.snapshot(sess, def), err
}

// UploadFile parses another file into a session waiting for an upload.
func (s *Service) UploadFile(ctx context.Context, id, fileName string, r io.Reader) (*ImportSession, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	def, err := s.Definition(sess.entity)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != StepUpload {
		return s.snapshot(sess, def), fmt.Errorf("upload in step %s: %w", sess.step, ErrInvalidTransition)
	}
	err = s.upload(ctx, sess, def, fileName, r)
	return s.snapshot(sess, def), err
}

// ImportSessionByID returns the current state of a session.
func (s *Service) ImportSessionByID(id string) (*ImportSession, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	def, err := s.Definition(sess.entity)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshot(sess, def), nil
}

// ConfirmImport stores the accepted records of a previewed session. Records
// whose key already exists are dropped without error. A store failure keeps
// the session in preview so the confirm can be retried.
func (s *Service) ConfirmImport(ctx context.Context, id string) (*ImportSession, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	def, err := s.Definition(sess.entity)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != StepPreview {
		return s.snapshot(sess, def), fmt.Errorf("confirm in step %s: %w", sess.step, ErrInvalidTransition)
	}

	log := logging.WithFields(ctx, "import_id", sess.id, "entity", sess.entity, "file", sess.fileName)

	inserted, err := s.store.InsertNew(ctx, sess.entity, sess.outcome.Records)
	if err != nil {
		log.Error("import insert failed", "error", err)
		return s.snapshot(sess, def), fmt.Errorf("insert %s: %w", sess.entity, err)
	}

	sess.inserted = inserted
	sess.step = StepDone
	sess.touch(s.now())

	log.Info("import confirmed",
		"inserted", inserted,
		"dropped", sess.outcome.Accepted-inserted,
		"skipped", sess.outcome.Skipped,
	)
	return s.snapshot(sess, def), nil
}

// ResetImport discards the parsed file and returns the session to upload.
// Finished sessions cannot be reset.
func (s *Service) ResetImport(ctx context.Context, id string) (*ImportSession, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	def, err := s.Definition(sess.entity)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step == StepDone {
		return s.snapshot(sess, def), fmt.Errorf("reset in step %s: %w", sess.step, ErrInvalidTransition)
	}
	sess.clear()
	sess.touch(s.now())

	logging.WithFields(ctx, "import_id", sess.id, "entity", sess.entity).Debug("import reset")
	return s.snapshot(sess, def), nil
}

// PruneSessions drops sessions idle for longer than the session TTL and
// returns how many were removed.
func (s *Service) PruneSessions() int {
	cutoff := s.now().Add(-s.sessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.updatedAt().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// session looks up a live session.
func (s *Service) session(id string) (*importSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrSessionNotFound)
	}
	if s.now().Sub(sess.updatedAt()) > s.sessionTTL {
		delete(s.sessions, id)
		return nil, fmt.Errorf("%q expired: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// upload parses r into sess. Caller holds sess.mu and has checked the step.
func (s *Service) upload(ctx context.Context, sess *importSession, def catalog.Definition, fileName string, r io.Reader) error {
	sess.clear()
	sess.fileName = fileName
	sess.touch(s.now())

	log := logging.WithFields(ctx, "import_id", sess.id, "entity", sess.entity, "file", fileName)

	fail := func(err error) error {
		sess.err = err
		log.Warn("import upload rejected", "error", err, "code", MapError(err).Code)
		return err
	}

	if r == nil || fileName == "" {
		return fail(ErrNoFile)
	}
	if err := s.limiter.Acquire(ctx); err != nil {
		return fail(err)
	}
	defer s.limiter.Release()

	existing, err := s.store.List(ctx, sess.entity)
	if err != nil {
		return fail(fmt.Errorf("list %s: %w", sess.entity, err))
	}

	start := time.Now()
	table, err := tabular.ParseFile(fileName, r)
	if err != nil {
		return fail(err)
	}
	sess.headers = table.Headers
	sess.missing = def.Schema.Missing(table.Rows[0])

	out, err := tabular.Import(table.Rows, def.Mapper(catalog.LastNumber(existing)))
	if err != nil {
		return fail(err)
	}

	seen := make(map[string]struct{}, len(existing)+len(out.Records))
	for _, rec := range existing {
		seen[rec.Key()] = struct{}{}
	}
	for _, rec := range out.Records {
		if _, dup := seen[rec.Key()]; dup {
			sess.repeated++
			continue
		}
		seen[rec.Key()] = struct{}{}
	}

	sess.outcome = out
	sess.step = StepPreview

	log.Info("import previewed",
		"rows", out.Total(),
		"accepted", out.Accepted,
		"skipped", out.Skipped,
		"duplicates", sess.repeated,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// clear drops everything learned from a file.
func (sess *importSession) clear() {
	sess.step = StepUpload
	sess.fileName = ""
	sess.headers = nil
	sess.missing = nil
	sess.outcome = nil
	sess.repeated = 0
	sess.inserted = 0
	sess.err = nil
}

// snapshot copies the session state. Caller holds sess.mu.
func (s *Service) snapshot(sess *importSession, def catalog.Definition) *ImportSession {
	view := &ImportSession{
		ID:            sess.id,
		Entity:        sess.entity,
		Step:          sess.step,
		FileName:      sess.fileName,
		Headers:       sess.headers,
		MissingFields: sess.missing,
		Duplicates:    sess.repeated,
		Inserted:      sess.inserted,
		CreatedAt:     sess.createdAt,
		UpdatedAt:     sess.updatedAt(),
	}
	if sess.outcome != nil {
		view.Accepted = sess.outcome.Accepted
		view.Skipped = sess.outcome.Skipped
		view.Columns = def.Columns
		n := min(len(sess.outcome.Records), s.previewRows)
		view.Sample = sess.outcome.Records[:n]
	}
	if sess.err != nil {
		msg := MapError(sess.err)
		view.Error = &msg
	}
	return view
}
