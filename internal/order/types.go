package order

// ProductRef is a read-only catalog record. Owned by the category
// definition; the core never mutates it.
type ProductRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CapacityMah int    `json:"capacity_mah"`
	WeightG     int    `json:"weight_g"`
	PriceYen    int    `json:"price_yen"`
	Note        string `json:"note,omitempty"`
	// IsTarget marks the product a dp treatment may emphasize.
	IsTarget bool `json:"is_target,omitempty"`
}

// ShippingMethod is one row of a category's static shipping table.
type ShippingMethod struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	PriceYen int      `json:"price_yen"`
	Pros     []string `json:"pros,omitempty"`
	Cons     []string `json:"cons,omitempty"`
	// Featured marks the method a dp treatment may badge as recommended.
	Featured bool `json:"featured,omitempty"`
}

// OptionItem is one row of a category's static options table.
type OptionItem struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	PriceYen int    `json:"price_yen"`
	Desc     string `json:"desc,omitempty"`
}

// Thresholds are the display-time eligibility conditions shown with a
// category's task instruction. Purely informational; never gates purchase.
type Thresholds struct {
	MinCapacityMah int `json:"min_capacity_mah"`
	MaxWeightG     int `json:"max_weight_g"`
	MaxPriceYen    int `json:"max_price_yen"`
}

// DisclosureMode controls how a step reveals the price breakdown.
type DisclosureMode string

const (
	// DisclosureAlwaysOpen renders the full breakdown unconditionally.
	DisclosureAlwaysOpen DisclosureMode = "always-open"
	// DisclosureCollapsed renders only the total; the breakdown sits
	// behind an explicit reveal action that never mutates canonical state.
	DisclosureCollapsed DisclosureMode = "collapsed-by-default"
)

// CardAttrWeight names the product-card attribute a policy may withhold.
const CardAttrWeight = "weight"

// Policy describes how one category x variant pair presents the flow.
// Immutable configuration; selected once per request.
//
// A policy transforms what is shown, pre-selected, or withheld. It never
// alters the pricing contract: forced defaults become visible in the
// effective state used for pricing and are carried forward explicitly in
// links, but the codec never injects them on its own.
type Policy struct {
	// ForcedShippingDefault, when non-empty, is injected into the
	// effective state whenever the decoded state has no shipping id.
	// Re-applied on every render (the observed treatment behavior; an
	// explicit opt-out is not remembered across navigations).
	ForcedShippingDefault string `json:"forced_shipping_default,omitempty"`

	// ForcedOptionDefaults are option ids force-added to the selection on
	// every render, regardless of what the shopper toggled off.
	ForcedOptionDefaults []string `json:"forced_option_defaults,omitempty"`

	// DecodeShippingDefault, when non-empty, is the concrete id an absent
	// shippingId key decodes to. Empty preserves absence as "unselected".
	// Declared per category so the unselected-vs-defaulted distinction
	// stays inspectable, never a fallback buried inside the codec.
	DecodeShippingDefault string `json:"decode_shipping_default,omitempty"`

	// Disclosure controls breakdown visibility on the confirm step.
	Disclosure DisclosureMode `json:"disclosure"`

	// DeferAmounts hides shipping/options amounts on the shipping step
	// (shown as not-yet-final); the canonical total is unaffected.
	DeferAmounts bool `json:"defer_amounts,omitempty"`

	// EmphasizedShippingID is visually highlighted with a recommendation
	// badge. No effect on price.
	EmphasizedShippingID string `json:"emphasized_shipping_id,omitempty"`

	// EmphasizedProductIDs are rendered enlarged/badged on the grid.
	EmphasizedProductIDs []string `json:"emphasized_product_ids,omitempty"`

	// HiddenCardAttr names a product attribute withheld from the summary
	// card while remaining available in the detail view.
	HiddenCardAttr string `json:"hidden_card_attr,omitempty"`

	// ConfirmBanner is an optional reassuring banner above the confirm
	// summary ("this looks fine") used by imposed-default treatments.
	ConfirmBanner string `json:"confirm_banner,omitempty"`
}

// EmphasizesProduct reports whether the policy highlights the product id.
func (p Policy) EmphasizesProduct(id string) bool {
	for _, e := range p.EmphasizedProductIDs {
		if e == id {
			return true
		}
	}
	return false
}

// Category is one experimental scenario: its catalog, static tables, task
// thresholds, and one policy per variant.
type Category struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Task       string             `json:"task,omitempty"`
	Thresholds Thresholds         `json:"thresholds"`
	Products   []ProductRef       `json:"products"`
	Shipping   []ShippingMethod   `json:"shipping"`
	Options    []OptionItem       `json:"options"`
	Policies   map[Variant]Policy `json:"policies"`
}

// Policy returns the policy for a variant. Missing rows fall back to the
// zero policy (neutral presentation), so a category definition may declare
// only the variants it manipulates.
func (c *Category) Policy(v Variant) Policy {
	return c.Policies[v]
}

// ShippingByID returns the shipping table entry with the given id.
func (c *Category) ShippingByID(id string) (ShippingMethod, bool) {
	for _, m := range c.Shipping {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}

// OptionByID returns the options table entry with the given id.
func (c *Category) OptionByID(id string) (OptionItem, bool) {
	for _, o := range c.Options {
		if o.ID == id {
			return o, true
		}
	}
	return OptionItem{}, false
}

// ProductByID returns the catalog entry with the given id.
func (c *Category) ProductByID(id string) (ProductRef, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return ProductRef{}, false
}

// PricingBreakdown is derived from a SelectionState and the category's
// static tables. Never stored; recomputed on every step.
type PricingBreakdown struct {
	ProductYen  int `json:"product_yen"`
	ShippingYen int `json:"shipping_yen"`
	OptionsYen  int `json:"options_yen"`
	TotalYen    int `json:"total_yen"`
}
