package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/maskprime/internal/design"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Checked int      `json:"checked"`
	Missing []string `json:"missing,omitempty"`
}

func (r ValidationResult) String() string {
	return fmt.Sprintf("✓ Settings valid; %d stimulus images present\n", r.Checked)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate settings and stimulus files",
		Long: `Validate the settings against the schema, check that every phase lasts at
least one frame, and check that every image the configured design could
draw exists under the stimuli directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	settings, err := loadSettings(opts)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid settings", err)
	}
	formatter.VerboseLog("Settings valid (%g Hz, %d practice, %d main)",
		settings.Display.RefreshRate, settings.Design.Practice, settings.Design.Main)

	root := settings.Paths.Stimuli
	pool := design.NewPool(root, os.DirFS(root))
	census := design.NewGenerator(pool, nil).Census(settings.Design.Practice, settings.Design.Main)
	formatter.VerboseLog("Checking %d stimulus images under %s", len(census), root)

	if err := pool.Verify(census); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStimuli, "stimulus pool incomplete", err)
	}

	return formatter.Success(ValidationResult{Valid: true, Checked: len(census)})
}
