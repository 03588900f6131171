package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "ask <question>",
		Short:   "Answer one question against the loaded data",
		Example: `  ekaya-insights ask "What is my total sales?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.newLogger("warn")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := newApp(cmd.Context(), opts.cfg, logger, true)
			if err != nil {
				return err
			}

			response, err := a.queryService.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if ok, err := printStructured(w, opts.output, response); ok {
				return err
			}
			return printAnswer(w, response)
		},
	}
}

// printAnswer renders a response for humans. A failed question is returned
// as an error so the process exits non-zero.
func printAnswer(w io.Writer, response *models.QueryResponse) error {
	if !response.Success {
		return errors.New(strings.TrimPrefix(response.Answer, "Error: "))
	}

	bold := color.New(color.Bold)
	bold.Fprint(w, "SQL: ")
	fmt.Fprintln(w, color.CyanString(response.SQL))
	fmt.Fprintln(w)

	var rows []map[string]any
	if err := json.Unmarshal([]byte(response.Result), &rows); err != nil {
		return fmt.Errorf("failed to decode result rows: %w", err)
	}
	renderRows(w, rows)
	fmt.Fprintln(w)

	bold.Fprint(w, "Answer: ")
	fmt.Fprintln(w, color.GreenString(response.Answer))
	fmt.Fprintf(w, "(%d rows, %d tables, %d ms)\n", len(rows), response.TablesQueried, response.ExecutionTime)
	return nil
}
