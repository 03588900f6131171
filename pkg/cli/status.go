package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ekaya-inc/ekaya-insights/pkg/ingest"
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

type statusReport struct {
	Counts models.DataCounts    `json:"counts" yaml:"counts"`
	Tables []ingest.TableReport `json:"tables" yaml:"tables"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Load the data directory and report record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := opts.newLogger("warn")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := newApp(cmd.Context(), opts.cfg, logger, false)
			if err != nil {
				return err
			}

			counts, err := a.store.Counts(cmd.Context())
			if err != nil {
				return err
			}
			report := statusReport{Counts: counts, Tables: a.reports}

			w := cmd.OutOrStdout()
			if ok, err := printStructured(w, opts.output, report); ok {
				return err
			}
			printStatus(w, opts.cfg.DataDir, report)
			return nil
		},
	}
}

func printStatus(w io.Writer, dataDir string, report statusReport) {
	fmt.Fprintln(w, color.CyanString("Data directory: %s", dataDir))

	table := newTable(w, []string{"Table", "Source", "Path", "Rows"})
	for _, t := range report.Tables {
		source := string(t.Source)
		if t.Source == ingest.SourceSeed {
			source = color.YellowString(source)
		}
		table.Append([]string{t.Table, source, t.Path, strconv.Itoa(t.Rows)})
	}
	table.Render()

	total := report.Counts.AdSales + report.Counts.TotalSales + report.Counts.Eligibility
	fmt.Fprintf(w, "Ad sales: %d, total sales: %d, eligibility: %d (%d records)\n",
		report.Counts.AdSales, report.Counts.TotalSales, report.Counts.Eligibility, total)
}
