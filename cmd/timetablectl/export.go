package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/core"
	"github.com/JonMunkholm/timetable/internal/tabular"
)

type exportOptions struct {
	format   string
	scope    string
	out      string
	search   string
	page     int
	pageSize int
	filter   string
	value    string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export <entity>",
		Short: "Export an entity as CSV, JSON, Excel or a printable document",
		Long: `Export the records of an entity.

Scope "all" exports every record. Scope "current" exports one page of the
search results (--q, --page, --page-size) or, for the schedule, the entries
passing --filter/--value.

Example: timetablectl export schedule --format pdf --scope current --filter lecturer --value Saleh --out saleh.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "csv", "Format: csv, json, xlsx or pdf")
	cmd.Flags().StringVar(&opts.scope, "scope", "all", "Scope: all or current")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&opts.search, "q", "", "Search text for scope current")
	cmd.Flags().IntVar(&opts.page, "page", 1, "Page for scope current")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", core.DefaultPageSize, "Page size for scope current")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Schedule filter: course, lecturer or room")
	cmd.Flags().StringVar(&opts.value, "value", "", "Schedule filter value")

	return cmd
}

func runExport(cmd *cobra.Command, root *rootOptions, opts exportOptions, entity string) error {
	ctx := cmd.Context()

	format, err := tabular.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	scope, err := tabular.ParseScope(opts.scope)
	if err != nil {
		return err
	}
	filter, err := catalog.ParseScheduleFilter(opts.filter, opts.value)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, root, core.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	job, err := a.service.Export(ctx, core.ExportRequest{
		Entity: entity,
		Format: format,
		Scope:  scope,
		Query:  core.ListQuery{Search: opts.search, Page: opts.page, PageSize: opts.pageSize},
		Filter: filter,
	})
	if err != nil {
		return err
	}

	w, err := openOutput(cmd, opts.out)
	if err != nil {
		return err
	}
	if err := job.Write(ctx, w); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", job.Filename, err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	if opts.out != "" && opts.out != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", job.Count, opts.out)
	}
	return nil
}
