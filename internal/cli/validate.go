package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/kanolab/patternshop/internal/catalog"
	"github.com/kanolab/patternshop/internal/order"
)

// CategorySummary is one compiled category in validate output.
type CategorySummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Products int      `json:"products"`
	Variants []string `json:"variants,omitempty"`
}

// ValidateResult is the validate command payload.
type ValidateResult struct {
	Valid      bool              `json:"valid"`
	Categories []CategorySummary `json:"categories,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [categories-dir]",
		Short: "Compile and check category definitions",
		Long: `Compile CUE category definitions and run consistency checks.

Without an argument the embedded definitions are checked; with a
directory argument, its .cue files are compiled instead.

Examples:
  patternshop validate
  patternshop validate ./categories --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	reg, err := loadRegistry(dir)
	if err != nil {
		if outErr := formatter.Error(ErrCodeCompile, err.Error(), nil); outErr != nil {
			return outErr
		}
		return NewExitError(ExitFailure, "validation failed")
	}

	result := ValidateResult{Valid: true}
	for _, cat := range reg.Categories() {
		result.Categories = append(result.Categories, CategorySummary{
			ID:       cat.ID,
			Title:    cat.Title,
			Products: len(cat.Products),
			Variants: variantKeys(cat),
		})
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	formatter.Textf("OK: %d categories", len(result.Categories))
	for _, c := range result.Categories {
		formatter.Textf("  %s  %s  (products=%d, policies=%v)", c.ID, c.Title, c.Products, c.Variants)
	}
	return nil
}

func loadRegistry(dir string) (*catalog.Registry, error) {
	if dir == "" {
		return catalog.LoadDefault()
	}
	return catalog.LoadDir(dir)
}

func variantKeys(cat *order.Category) []string {
	keys := make([]string, 0, len(cat.Policies))
	for v := range cat.Policies {
		keys = append(keys, string(v))
	}
	sort.Strings(keys)
	return keys
}
