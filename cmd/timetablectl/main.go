// Command timetablectl imports and exports timetable data from the terminal.
//
//	timetablectl import courses courses.xlsx
//	timetablectl import rooms rooms.csv --apply
//	timetablectl export schedule --format xlsx --out schedule.xlsx
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/config"
	"github.com/JonMunkholm/timetable/internal/core"
	"github.com/JonMunkholm/timetable/internal/logging"
	"github.com/JonMunkholm/timetable/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err for the terminal. Errors with a support code are
// shown as the web API words them, followed by the technical cause.
func reportError(w io.Writer, err error) {
	if !core.IsUserFacing(err) {
		fmt.Fprintln(w, "Error:", err)
		return
	}
	fmt.Fprintln(w, "Error:", core.FormatUserError(err))
	var ue *core.UserError
	if errors.As(err, &ue) {
		err = ue.Technical
	}
	fmt.Fprintln(w, "Cause:", err)
}

type rootOptions struct {
	logLevel  string
	logFormat string
	noSeed    bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "timetablectl",
		Short:         "Import and export timetable data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	cmd.PersistentFlags().BoolVar(&opts.noSeed, "no-seed", false, "Do not load the demonstration data set")

	cmd.AddCommand(
		newImportCmd(&opts),
		newExportCmd(&opts),
		newEntitiesCmd(&opts),
		newReportCmd(&opts),
	)
	return cmd
}

// app is the service stack a command runs against. Without DATABASE_URL the
// records live in memory for the duration of the command.
type app struct {
	service *core.Service
	store   store.Store
}

func newApp(ctx context.Context, opts *rootOptions, svcOpts core.Options) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	registry := catalog.NewRegistry()
	if path := cfg.Catalog.AliasesFile; path != "" {
		aliases, err := catalog.LoadAliases(path)
		if err != nil {
			return nil, err
		}
		if err := registry.ApplyAliases(aliases); err != nil {
			return nil, err
		}
	}

	st, err := store.Open(ctx, cfg.Database, registry.Unmarshal)
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Seed && !opts.noSeed {
		if err := store.Seed(ctx, st, catalog.Seed()); err != nil {
			st.Close()
			return nil, err
		}
	}

	if svcOpts.MaxConcurrentImports == 0 {
		svcOpts.MaxConcurrentImports = cfg.Upload.MaxConcurrent
	}
	if svcOpts.MaxWait == 0 {
		svcOpts.MaxWait = cfg.Upload.MaxWaitTime
	}
	return &app{service: core.NewService(st, registry, svcOpts), store: st}, nil
}

func (a *app) Close() {
	a.store.Close()
}

// openOutput returns stdout for "" or "-", otherwise a created file.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
