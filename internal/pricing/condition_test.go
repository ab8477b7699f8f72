package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kanolab/patternshop/internal/order"
)

var taskThresholds = order.Thresholds{
	MinCapacityMah: 10000,
	MaxWeightG:     200,
	MaxPriceYen:    4000,
}

func TestEligible_BoundaryInclusive(t *testing.T) {
	onEveryBound := order.ProductRef{CapacityMah: 10000, WeightG: 200, PriceYen: 4000}
	assert.True(t, Eligible(onEveryBound, taskThresholds))
}

func TestEligible_OneUnitPastAnyBoundFails(t *testing.T) {
	tests := []struct {
		name string
		p    order.ProductRef
	}{
		{"capacity one short", order.ProductRef{CapacityMah: 9999, WeightG: 200, PriceYen: 4000}},
		{"weight one over", order.ProductRef{CapacityMah: 10000, WeightG: 201, PriceYen: 4000}},
		{"price one over", order.ProductRef{CapacityMah: 10000, WeightG: 200, PriceYen: 4001}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Eligible(tt.p, taskThresholds))
		})
	}
}

func TestEligible_CatalogRows(t *testing.T) {
	tests := []struct {
		name string
		p    order.ProductRef
		want bool
	}{
		{"balanced", order.ProductRef{CapacityMah: 10000, WeightG: 189, PriceYen: 3180}, true},
		{"slightly heavy", order.ProductRef{CapacityMah: 12000, WeightG: 205, PriceYen: 3390}, false},
		{"cheap but small", order.ProductRef{CapacityMah: 8000, WeightG: 160, PriceYen: 2380}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(tt.p, taskThresholds))
		})
	}
}
