package cli

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/maskprime/internal/config"
	"github.com/roach88/maskprime/internal/design"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Seed uint64 // 0 draws a fresh seed
}

// Plan is a generated design.
type Plan struct {
	Seed     uint64             `json:"seed"`
	Practice []design.TrialSpec `json:"practice"`
	Main     []design.TrialSpec `json:"main"`
}

func (p Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seed: %d\n\n", p.Seed)

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TRIAL\tTYPE\tCATEGORY\tSTIMULUS\tIMAGE")
	for _, block := range [][]design.TrialSpec{p.Practice, p.Main} {
		for _, s := range block {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.Trial, s.TrialType, s.Category, s.StimulusID, s.Image)
		}
	}
	tw.Flush()
	return b.String()
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate and print a trial design",
		Long: `Generate the practice and main blocks without running a session.

The same seed and settings always produce the same design.

Examples:
  maskprime plan
  maskprime plan --seed 42 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 draws a fresh one)")

	return cmd
}

func runPlan(opts *PlanOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	settings, err := loadSettings(opts.RootOptions)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid settings", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	plan, err := generatePlan(settings, seed)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to generate design", err)
	}
	return formatter.Success(plan)
}

// generatePlan builds both blocks from one seeded stream.
func generatePlan(settings config.Settings, seed uint64) (Plan, error) {
	g := design.NewGenerator(
		design.NewPool(settings.Paths.Stimuli, nil),
		rand.New(rand.NewPCG(seed, 0)),
	)

	practice, err := g.Practice(settings.Design.Practice)
	if err != nil {
		return Plan{}, err
	}
	main, err := g.Main(settings.Design.Main)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Seed: seed, Practice: practice, Main: main}, nil
}
