package wire

import (
	"net/url"
	"strconv"

	"github.com/kanolab/patternshop/internal/order"
)

// Wire parameter keys, shared across every category and step.
const (
	ParamVariant      = "variant"
	ParamProductID    = "productId"
	ParamProductPrice = "productPrice"
	ParamShippingID   = "shippingId"
	ParamOpt          = "opt"
)

// Defaults declares per-category decode behavior for absent keys.
//
// Some categories default an absent shippingId to a concrete id, others
// preserve absence as "unselected". That choice is part of the experiment
// design, so it is passed explicitly here rather than hardcoded in the
// codec.
type Defaults struct {
	// ShippingID is injected when the shippingId key is absent. Empty
	// preserves absence.
	ShippingID string
}

// DefaultsFor derives the decode defaults a policy declares.
func DefaultsFor(p order.Policy) Defaults {
	return Defaults{ShippingID: p.DecodeShippingDefault}
}

// Encode emits the wire parameters for a state.
//
// variant, productId and productPrice are always present. shippingId is
// emitted only when selected; categories that allow "unselected" must not
// gain a default key here. One opt entry is emitted per selected option,
// in set order.
func Encode(s order.SelectionState) url.Values {
	q := url.Values{}
	q.Set(ParamVariant, string(s.Variant))
	q.Set(ParamProductID, s.ProductID)
	q.Set(ParamProductPrice, strconv.Itoa(s.ProductPrice))
	if s.ShippingID != "" {
		q.Set(ParamShippingID, s.ShippingID)
	}
	for _, opt := range s.Options {
		q.Add(ParamOpt, opt)
	}
	return q
}

// Decode parses wire parameters into a SelectionState against a category's
// tables. Total function: every boundary condition has a defined default.
//
//   - variant: normalized, never an error
//   - productPrice: non-numeric or negative => 0
//   - shippingId: absent => Defaults.ShippingID (or unselected); ids not
//     in the category's shipping table => unselected
//   - opt: duplicates collapse; ids not in the category's options table
//     are dropped, not stored
func Decode(q url.Values, cat *order.Category, d Defaults) order.SelectionState {
	s := order.SelectionState{
		Variant:      order.ResolveVariant(q.Get(ParamVariant)),
		ProductID:    q.Get(ParamProductID),
		ProductPrice: parsePrice(q.Get(ParamProductPrice)),
	}

	shippingID := q.Get(ParamShippingID)
	if !q.Has(ParamShippingID) {
		shippingID = d.ShippingID
	}
	if _, ok := cat.ShippingByID(shippingID); ok {
		s.ShippingID = shippingID
	}

	var opts []string
	for _, id := range q[ParamOpt] {
		if _, ok := cat.OptionByID(id); ok {
			opts = append(opts, id)
		}
	}
	s.Options = order.NormalizeOptions(opts)

	return s
}

// parsePrice clamps to a non-negative integer. Missing, non-numeric and
// negative inputs are all treated identically: zero.
func parsePrice(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
