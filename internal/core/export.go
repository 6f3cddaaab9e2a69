package core

import (
	"context"
	"fmt"
	"io"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/tabular"
)

// ExportRequest selects what to export. Query applies to entity exports with
// scope current; Filter applies to schedule exports with scope current.
type ExportRequest struct {
	Entity string
	Format tabular.Format
	Scope  tabular.Scope
	Query  ListQuery
	Filter catalog.ScheduleFilter
}

// ExportJob is a prepared export. The records are captured when the job is
// created; Write only renders them.
type ExportJob struct {
	Filename    string
	ContentType string
	Count       int

	write func(ctx context.Context, w io.Writer) error
}

// Write renders the export to w.
func (j *ExportJob) Write(ctx context.Context, w io.Writer) error {
	return j.write(ctx, w)
}

// Export collects the records for req and returns a job that renders them.
func (s *Service) Export(ctx context.Context, req ExportRequest) (*ExportJob, error) {
	def, err := s.Definition(req.Entity)
	if err != nil {
		return nil, err
	}
	if req.Format == "" {
		req.Format = tabular.FormatCSV
	}
	if req.Scope == "" {
		req.Scope = tabular.ScopeAll
	}

	if req.Entity == catalog.Schedule {
		filter := req.Filter
		if req.Scope == tabular.ScopeAll {
			filter = catalog.ScheduleFilter{}
		}
		rows, err := s.Schedule(ctx, filter)
		if err != nil {
			return nil, err
		}
		return newExportJob(def, req, rows), nil
	}

	var records []catalog.Record
	if req.Scope == tabular.ScopeAll {
		records, err = s.All(ctx, req.Entity)
	} else {
		var page *Page
		page, err = s.List(ctx, req.Entity, req.Query)
		if page != nil {
			records = page.Records
		}
	}
	if err != nil {
		return nil, err
	}
	return newExportJob(def, req, records), nil
}

func newExportJob[T tabular.FieldAccess](def catalog.Definition, req ExportRequest, records []T) *ExportJob {
	doc := tabular.Document{
		Title:    def.Info.Title,
		Subtitle: fmt.Sprintf("%d records", len(records)),
		Sheet:    def.Info.SheetName,
	}
	return &ExportJob{
		Filename:    tabular.Filename(def.Info.FilenamePrefix, req.Scope, req.Format),
		ContentType: req.Format.ContentType(),
		Count:       len(records),
		write: func(ctx context.Context, w io.Writer) error {
			return tabular.Export(ctx, w, req.Format, def.Columns, records, doc)
		},
	}
}
