package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/store"
)

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	MaxConcurrentImports int
	MaxWait              time.Duration
	SessionTTL           time.Duration
	PreviewRows          int
}

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultPreviewRows = 20
)

// Service provides the timetable data operations: entity management, imports,
// exports and reports. It has no transport dependencies and is shared by the
// HTTP server and the CLI.
type Service struct {
	store    store.Store
	registry *catalog.Registry
	limiter  *ImportLimiter

	sessionTTL  time.Duration
	previewRows int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*importSession
}

// NewService creates a Service over st using the definitions in reg.
func NewService(st store.Store, reg *catalog.Registry, opts Options) *Service {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}
	return &Service{
		store:       st,
		registry:    reg,
		limiter:     NewImportLimiter(opts.MaxConcurrentImports, opts.MaxWait),
		sessionTTL:  opts.SessionTTL,
		previewRows: opts.PreviewRows,
		now:         time.Now,
		sessions:    make(map[string]*importSession),
	}
}

// Entities returns the display information of every entity.
func (s *Service) Entities() []catalog.Info {
	defs := s.registry.All()
	infos := make([]catalog.Info, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// Definition returns the definition of entity or ErrUnknownEntity.
func (s *Service) Definition(entity string) (catalog.Definition, error) {
	def, ok := s.registry.Get(entity)
	if !ok {
		return catalog.Definition{}, fmt.Errorf("%q: %w", entity, ErrUnknownEntity)
	}
	return def, nil
}

// ImportStatus reports how many imports are parsing.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until in-flight imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// StartSessionJanitor removes expired import sessions every interval until
// ctx is cancelled.
func (s *Service) StartSessionJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.PruneSessions(); n > 0 {
				slog.Debug("expired import sessions removed", "count", n)
			}
		}
	}
}
