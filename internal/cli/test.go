package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kanolab/patternshop/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	CategoriesDir string
	Filter        string
}

// ScenarioResult is one scenario's outcome in test output.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestSummary is the test command payload.
type TestSummary struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run flow walkthrough scenarios",
		Long: `Execute scripted walkthroughs against the compiled categories.

Each scenario renders a sequence of flow pages, following the links the
pages emit, and checks its assertions against the resulting trace.

Exit codes:
  0 - all scenarios passed
  1 - one or more scenarios failed
  2 - command error (bad paths, compile failure, ...)

Examples:
  patternshop test ./scenarios
  patternshop test ./scenarios --filter "imposed-*" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CategoriesDir, "categories", "", "directory of .cue category definitions (default: embedded)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern on name")
	return cmd
}

func runScenarios(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if _, err := os.Stat(scenariosDir); err != nil {
		return WrapExitError(ExitCommandError, "scenarios directory", err)
	}
	reg, err := loadRegistry(opts.CategoriesDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "load categories", err)
	}
	scenarios, err := harness.LoadScenarios(scenariosDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "load scenarios", err)
	}

	var summary TestSummary
	for _, sc := range scenarios {
		if opts.Filter != "" {
			matched, globErr := filepath.Match(opts.Filter, sc.Name)
			if globErr != nil {
				return WrapExitError(ExitCommandError, "bad filter", globErr)
			}
			if !matched {
				continue
			}
		}

		result, runErr := harness.Run(sc, reg)
		if runErr != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s", sc.Name), runErr)
		}

		sr := ScenarioResult{Name: sc.Name, Pass: result.Passed}
		for _, aerr := range result.Errors {
			sr.Errors = append(sr.Errors, aerr.Error())
		}
		summary.Scenarios = append(summary.Scenarios, sr)
		summary.Total++
		if result.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if formatter.JSON() {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	} else {
		for _, sr := range summary.Scenarios {
			mark := "PASS"
			if !sr.Pass {
				mark = "FAIL"
			}
			formatter.Textf("%s  %s", mark, sr.Name)
			for _, e := range sr.Errors {
				formatter.Textf("      %s", e)
			}
		}
		formatter.Textf("%d passed, %d failed, %d total", summary.Passed, summary.Failed, summary.Total)
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}
	return nil
}
