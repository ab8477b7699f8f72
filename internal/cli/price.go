package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kanolab/patternshop/internal/order"
	"github.com/kanolab/patternshop/internal/policy"
	"github.com/kanolab/patternshop/internal/pricing"
	"github.com/kanolab/patternshop/internal/wire"
)

// PriceOptions holds flags for the price command.
type PriceOptions struct {
	*RootOptions
	CategoriesDir string
}

// PriceResult is the price command payload.
type PriceResult struct {
	Category  string                 `json:"category"`
	Variant   order.Variant          `json:"variant"`
	State     order.SelectionState   `json:"state"`
	Effective order.SelectionState   `json:"effective"`
	Shipping  string                 `json:"shipping"`
	Breakdown order.PricingBreakdown `json:"breakdown"`
}

// NewPriceCommand creates the price command.
func NewPriceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PriceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "price <category> <query>",
		Short: "Price a wire state",
		Long: `Decode a query string against a category and price the result.

The query is exactly what a flow URL carries, e.g.
"variant=dp&productId=p1&productPrice=3180&opt=insurance". The output
shows both the decoded state and the effective state after the variant's
policy applied its defaults.

Examples:
  patternshop price c3 "variant=dp&productId=p1&productPrice=3180"
  patternshop price c1 "variant=control&productId=p2&productPrice=2880&shippingId=express" --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrice(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CategoriesDir, "categories", "", "directory of .cue category definitions (default: embedded)")
	return cmd
}

func runPrice(opts *PriceOptions, categoryID, rawQuery string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	reg, err := loadRegistry(opts.CategoriesDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "load categories", err)
	}
	cat, ok := reg.Lookup(categoryID)
	if !ok {
		if outErr := formatter.Error(ErrCodeNotFound, fmt.Sprintf("unknown category %q", categoryID), reg.IDs()); outErr != nil {
			return outErr
		}
		return NewExitError(ExitCommandError, "unknown category")
	}

	q, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return WrapExitError(ExitCommandError, "parse query", err)
	}

	variant := order.ResolveVariant(q.Get(wire.ParamVariant))
	pol := cat.Policy(variant)
	state := wire.Decode(q, cat, wire.DefaultsFor(pol))
	eff := policy.Effective(state, pol)

	result := PriceResult{
		Category:  cat.ID,
		Variant:   variant,
		State:     state,
		Effective: eff,
		Shipping:  shippingLabel(cat, eff.ShippingID),
		Breakdown: pricing.PriceInCategory(eff, cat),
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	formatter.Textf("%s / %s", result.Category, result.Variant)
	formatter.Textf("  product   %s  %s", eff.ProductID, pricing.Yen(result.Breakdown.ProductYen))
	formatter.Textf("  shipping  %s  %s", result.Shipping, pricing.Yen(result.Breakdown.ShippingYen))
	formatter.Textf("  options   %v  %s", eff.Options, pricing.Yen(result.Breakdown.OptionsYen))
	formatter.Textf("  total     %s", pricing.Yen(result.Breakdown.TotalYen))
	return nil
}

func shippingLabel(cat *order.Category, id string) string {
	if m, ok := cat.ShippingByID(id); ok {
		return m.Title
	}
	return policy.UnselectedLabel
}
