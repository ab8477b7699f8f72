package policy

import (
	"github.com/kanolab/patternshop/internal/order"
)

// Effective injects the policy's forced defaults into a copy of the
// canonical state.
//
//   - Forced shipping applies only when the state has no shipping id; an
//     explicit choice always wins.
//   - Forced options are force-added unconditionally. They remain
//     toggle-able in the UI, but reappear on every subsequent render: an
//     explicit opt-out is not remembered across navigations. Swapping in
//     sticky opt-out semantics means changing this function only; pricing
//     and codec stay untouched.
//
// The canonical state is never mutated.
func Effective(s order.SelectionState, p order.Policy) order.SelectionState {
	eff := s.Clone()
	if eff.ShippingID == "" && p.ForcedShippingDefault != "" {
		eff.ShippingID = p.ForcedShippingDefault
	}
	if len(p.ForcedOptionDefaults) > 0 {
		eff = eff.AddOptions(p.ForcedOptionDefaults...)
	}
	return eff
}
