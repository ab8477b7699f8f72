// Package pricing computes the money side of the flow: the breakdown a
// step displays, the eligibility annotation on catalog cards, and the
// ja-locale yen formatting shared by every renderer.
//
// Everything here is a pure function over a SelectionState and a
// category's static tables. No I/O, no error conditions; pricing always
// returns a value so a step can never fail to render.
package pricing

import (
	"github.com/kanolab/patternshop/internal/order"
)

// Price derives the breakdown for a state from the category's static
// tables.
//
//   - shipping: price of the matching table entry, or 0 when unselected or
//     unmatched (unmatched is unselected, not an error)
//   - options: sum over selected ids present in the table; ids absent from
//     the table contribute 0
//   - total: productPrice + shipping + options, integer yen throughout
func Price(s order.SelectionState, shipping []order.ShippingMethod, options []order.OptionItem) order.PricingBreakdown {
	b := order.PricingBreakdown{ProductYen: s.ProductPrice}

	for _, m := range shipping {
		if m.ID == s.ShippingID {
			b.ShippingYen = m.PriceYen
			break
		}
	}

	for _, o := range options {
		if s.HasOption(o.ID) {
			b.OptionsYen += o.PriceYen
		}
	}

	b.TotalYen = b.ProductYen + b.ShippingYen + b.OptionsYen
	return b
}

// PriceInCategory is Price against a category's own tables.
func PriceInCategory(s order.SelectionState, cat *order.Category) order.PricingBreakdown {
	return Price(s, cat.Shipping, cat.Options)
}
