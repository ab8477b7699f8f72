package policy

import (
	"github.com/kanolab/patternshop/internal/order"
	"github.com/kanolab/patternshop/internal/pricing"
	"github.com/kanolab/patternshop/internal/wire"
)

// UnselectedLabel is shown wherever shipping is still unselected.
const UnselectedLabel = "未選択"

// ProductCard is one catalog entry as the products grid shows it.
type ProductCard struct {
	Product order.ProductRef
	// Eligible annotates whether the product meets the task thresholds.
	// Informational only; BuyURL is present either way.
	Eligible bool
	// Emphasized products render enlarged with a recommendation badge.
	Emphasized bool
	// ShowWeight is false when the policy withholds weight from the card.
	// The detail view always shows it.
	ShowWeight bool
	BuyURL     string
}

// ProductsView is the model for the product-selection step.
type ProductsView struct {
	CategoryID    string
	CategoryTitle string
	Task          string
	Thresholds    order.Thresholds
	Variant       order.Variant
	Cards         []ProductCard
	IndexURL      string
}

// ShippingChoice is one shipping method row with its selection link.
type ShippingChoice struct {
	Method   order.ShippingMethod
	Selected bool
	// Recommended carries the policy's emphasis badge.
	Recommended bool
	SelectURL   string
}

// OptionChoice is one option row with its toggle link.
type OptionChoice struct {
	Item      order.OptionItem
	Selected  bool
	ToggleURL string
}

// ShippingView is the model for the shipping/options step.
type ShippingView struct {
	CategoryID    string
	CategoryTitle string
	Variant       order.Variant

	// State is what the URL carried; Effective adds forced defaults and is
	// what the links below carry forward.
	State     order.SelectionState
	Effective order.SelectionState

	// Breakdown prices the effective state. Shown is what this step
	// displays: identical, except amounts are withheld while the policy
	// defers them.
	Breakdown       order.PricingBreakdown
	Shown           order.PricingBreakdown
	AmountsDeferred bool

	ShippingTitle      string
	ShippingUnselected bool

	Choices []ShippingChoice
	Options []OptionChoice

	ConfirmURL string
	BackURL    string
}

// ConfirmView is the model for the order-confirmation step.
type ConfirmView struct {
	CategoryID    string
	CategoryTitle string
	Variant       order.Variant

	State     order.SelectionState
	Effective order.SelectionState
	Breakdown order.PricingBreakdown

	ShippingTitle      string
	ShippingUnselected bool
	// SelectedOptions lists the effective selections in table order; ids
	// the table does not know never appear here.
	SelectedOptions []order.OptionItem

	// Collapsed means the policy hides the breakdown behind a reveal.
	// BreakdownVisible is the resolved visibility for this render; the
	// reveal action changes it without touching canonical state.
	Collapsed        bool
	BreakdownVisible bool
	RevealURL        string

	Banner   string
	BackURL  string
	IndexURL string
}

// BuildProducts assembles the products step for a category and variant.
func BuildProducts(cat *order.Category, v order.Variant, links wire.LinkBuilder) ProductsView {
	pol := cat.Policy(v)
	entry := order.SelectionState{Variant: v}

	cards := make([]ProductCard, 0, len(cat.Products))
	for _, p := range cat.Products {
		cards = append(cards, ProductCard{
			Product:    p,
			Eligible:   pricing.Eligible(p, cat.Thresholds),
			Emphasized: pol.EmphasizesProduct(p.ID),
			ShowWeight: pol.HiddenCardAttr != order.CardAttrWeight,
			BuyURL:     links.Link(cat.ID, wire.StepShipping, entry, wire.WithProduct(p)),
		})
	}

	return ProductsView{
		CategoryID:    cat.ID,
		CategoryTitle: cat.Title,
		Task:          cat.Task,
		Thresholds:    cat.Thresholds,
		Variant:       v,
		Cards:         cards,
		IndexURL:      links.IndexLink(),
	}
}

// BuildShipping assembles the shipping/options step for a decoded state.
//
// Links are built from the effective state, so an injected default is
// carried forward explicitly from here on. Toggling a forced option off
// produces a URL without it; the policy re-adds it on the next render.
func BuildShipping(cat *order.Category, s order.SelectionState, links wire.LinkBuilder) ShippingView {
	pol := cat.Policy(s.Variant)
	eff := Effective(s, pol)
	breakdown := pricing.PriceInCategory(eff, cat)

	shown := breakdown
	if pol.DeferAmounts {
		// Passive omission: amounts are presented as not yet final. The
		// canonical breakdown is untouched.
		shown.ShippingYen = 0
		shown.OptionsYen = 0
		shown.TotalYen = shown.ProductYen
	}

	choices := make([]ShippingChoice, 0, len(cat.Shipping))
	for _, m := range cat.Shipping {
		choices = append(choices, ShippingChoice{
			Method:      m,
			Selected:    eff.ShippingID == m.ID,
			Recommended: pol.EmphasizedShippingID == m.ID,
			SelectURL:   links.Link(cat.ID, wire.StepShipping, eff, wire.WithShipping(m.ID)),
		})
	}

	opts := make([]OptionChoice, 0, len(cat.Options))
	for _, o := range cat.Options {
		opts = append(opts, OptionChoice{
			Item:      o,
			Selected:  eff.HasOption(o.ID),
			ToggleURL: links.Link(cat.ID, wire.StepShipping, eff, wire.WithToggledOption(o.ID)),
		})
	}

	return ShippingView{
		CategoryID:         cat.ID,
		CategoryTitle:      cat.Title,
		Variant:            s.Variant,
		State:              s,
		Effective:          eff,
		Breakdown:          breakdown,
		Shown:              shown,
		AmountsDeferred:    pol.DeferAmounts,
		ShippingTitle:      shippingTitle(cat, eff.ShippingID),
		ShippingUnselected: eff.ShippingID == "",
		Choices:            choices,
		Options:            opts,
		ConfirmURL:         links.Link(cat.ID, wire.StepConfirm, eff),
		BackURL:            links.Link(cat.ID, wire.StepProducts, eff),
	}
}

// BuildConfirm assembles the confirmation step. revealed reflects the
// explicit reveal action for collapsed disclosure; it affects visibility
// only, never the numbers.
func BuildConfirm(cat *order.Category, s order.SelectionState, revealed bool, links wire.LinkBuilder) ConfirmView {
	pol := cat.Policy(s.Variant)
	eff := Effective(s, pol)
	breakdown := pricing.PriceInCategory(eff, cat)

	collapsed := pol.Disclosure == order.DisclosureCollapsed
	visible := !collapsed || revealed

	var revealURL string
	if collapsed && !revealed {
		revealURL = links.RevealLink(cat.ID, eff)
	}

	var selected []order.OptionItem
	for _, o := range cat.Options {
		if eff.HasOption(o.ID) {
			selected = append(selected, o)
		}
	}

	return ConfirmView{
		CategoryID:         cat.ID,
		CategoryTitle:      cat.Title,
		Variant:            s.Variant,
		State:              s,
		Effective:          eff,
		Breakdown:          breakdown,
		ShippingTitle:      shippingTitle(cat, eff.ShippingID),
		ShippingUnselected: eff.ShippingID == "",
		SelectedOptions:    selected,
		Collapsed:          collapsed,
		BreakdownVisible:   visible,
		RevealURL:          revealURL,
		Banner:             pol.ConfirmBanner,
		BackURL:            links.Link(cat.ID, wire.StepShipping, eff),
		IndexURL:           links.IndexLink(),
	}
}

func shippingTitle(cat *order.Category, id string) string {
	if m, ok := cat.ShippingByID(id); ok {
		return m.Title
	}
	return UnselectedLabel
}
