package pricing

import (
	"github.com/kanolab/patternshop/internal/order"
)

// Eligible reports whether a product meets the category's task
// thresholds. Boundary-inclusive on both ends: a product sitting exactly
// on every bound passes.
//
// Display-time annotation only. A shopper can always proceed with an
// ineligible product; nothing downstream consults this.
func Eligible(p order.ProductRef, t order.Thresholds) bool {
	return p.CapacityMah >= t.MinCapacityMah &&
		p.WeightG <= t.MaxWeightG &&
		p.PriceYen <= t.MaxPriceYen
}
