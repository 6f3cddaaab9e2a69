package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/timetable/internal/core"
)

func newEntitiesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List entities with their record counts and example headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), root, core.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			counts, err := a.service.Counts(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ENTITY\tRECORDS\tIMPORT HEADERS")
			for _, info := range a.service.Entities() {
				headers := strings.Join(info.ExampleHeaders, ",")
				if info.ReadOnly {
					headers = "(read-only)"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Key, counts[info.Key], headers)
			}
			return tw.Flush()
		},
	}
}

func newReportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print schedule statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), root, core.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			sum, err := a.service.Summary(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		},
	}
}
