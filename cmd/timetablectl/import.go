package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/core"
)

type importOptions struct {
	apply bool
	limit int
}

// importReport is printed after an import.
type importReport struct {
	Entity     string           `json:"entity"`
	File       string           `json:"file"`
	Accepted   int              `json:"accepted"`
	Skipped    int              `json:"skipped"`
	Duplicates int              `json:"duplicates"`
	Inserted   *int             `json:"inserted,omitempty"`
	Missing    []string         `json:"missingFields,omitempty"`
	Records    []catalog.Record `json:"records"`
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <entity> <file>",
		Short: "Parse a CSV or Excel file into an entity",
		Long: `Parse a CSV or Excel file with the entity's header aliases and print
the accepted and skipped row counts and the parsed records as JSON.

Nothing is stored unless --apply is given. Records whose key already exists
are dropped.

Example: timetablectl import courses courses.xlsx --limit 5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, root, opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Store the accepted records (default is dry-run)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Print at most this many records (0 prints all)")

	return cmd
}

func runImport(cmd *cobra.Command, root *rootOptions, opts importOptions, entity, path string) error {
	ctx := cmd.Context()

	preview := opts.limit
	if preview <= 0 {
		preview = math.MaxInt32
	}
	a, err := newApp(ctx, root, core.Options{PreviewRows: preview})
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	sess, err := a.service.StartImport(ctx, entity, filepath.Base(path), f)
	if err != nil {
		return core.NewUserError(err)
	}

	report := importReport{
		Entity:     sess.Entity,
		File:       sess.FileName,
		Accepted:   sess.Accepted,
		Skipped:    sess.Skipped,
		Duplicates: sess.Duplicates,
		Missing:    sess.MissingFields,
		Records:    sess.Sample,
	}

	if opts.apply {
		done, err := a.service.ConfirmImport(ctx, sess.ID)
		if err != nil {
			return core.NewUserError(fmt.Errorf("apply import: %w", err))
		}
		report.Inserted = &done.Inserted
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
