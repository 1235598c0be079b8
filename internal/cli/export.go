package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/maskprime/internal/results"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Out      string
	All      bool
}

// ExportResult lists the written result files.
type ExportResult struct {
	Files []string `json:"files"`
}

func (r ExportResult) String() string {
	var b strings.Builder
	for _, f := range r.Files {
		fmt.Fprintf(&b, "✓ %s\n", f)
	}
	return b.String()
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export [subject-id...]",
		Short: "Write result tables from the database",
		Long: `Write the CSV result table of one or more subjects from the SQLite
database. Useful for sessions that were aborted before their table was
written; completed trials are exported in presentation order.

Examples:
  maskprime export --db data/results.db 0190f3e2-6a1b-7c4d-9e8f-0a1b2c3d4e5f
  maskprime export --db data/results.db --all --out exports`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output directory (default: the settings data directory)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "export every subject in the database")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(opts *ExportOptions, subjects []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.All == (len(subjects) > 0) {
		return NewExitError(ExitCommandError, "give subject ids or --all, not both")
	}

	// Opening would create an empty database.
	if _, err := os.Stat(opts.Database); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "database not found", err)
	}

	out := opts.Out
	if out == "" {
		settings, err := loadSettings(opts.RootOptions)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid settings", err)
		}
		out = settings.Paths.Data
	}

	st, err := results.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if opts.All {
		if subjects, err = st.Subjects(ctx); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list subjects", err)
		}
	}

	var written ExportResult
	for _, id := range subjects {
		rows, err := st.Results(ctx, id)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read results", err)
		}
		if len(rows) == 0 {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, "no results",
				fmt.Errorf("subject %q has no recorded trials", id))
		}

		path, err := results.WriteFile(out, id, rows)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeStore, "failed to write result file", err)
		}
		formatter.VerboseLog("Exported %d trials for %s", len(rows), id)
		written.Files = append(written.Files, filepath.Clean(path))
	}

	return formatter.Success(written)
}
