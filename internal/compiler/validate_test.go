package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanolab/patternshop/internal/order"
)

func validCategory() *order.Category {
	return &order.Category{
		ID:    "c1",
		Title: "カテゴリー1",
		Products: []order.ProductRef{
			{ID: "p1", Name: "モバイルバッテリー1", PriceYen: 3180},
		},
		Shipping: []order.ShippingMethod{
			{ID: "express", Title: "お急ぎ配送", PriceYen: 150},
			{ID: "normal", Title: "通常配送", PriceYen: 0},
		},
		Options: []order.OptionItem{
			{ID: "insurance", Label: "配送補償", PriceYen: 300},
		},
	}
}

func TestValidateCategory_Valid(t *testing.T) {
	assert.NoError(t, ValidateCategory(validCategory()))
}

func TestValidateCategory_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*order.Category)
		wantMsg string
	}{
		{
			"no products",
			func(c *order.Category) { c.Products = nil },
			"at least one product",
		},
		{
			"no shipping",
			func(c *order.Category) { c.Shipping = nil },
			"at least one shipping method",
		},
		{
			"duplicate shipping id",
			func(c *order.Category) { c.Shipping = append(c.Shipping, c.Shipping[0]) },
			`duplicate id "express"`,
		},
		{
			"empty option id",
			func(c *order.Category) { c.Options = append(c.Options, order.OptionItem{Label: "x"}) },
			"id must be non-empty",
		},
		{
			"negative price",
			func(c *order.Category) { c.Products[0].PriceYen = -1 },
			"must be non-negative",
		},
		{
			"forced shipping not in table",
			func(c *order.Category) {
				c.Policies = map[order.Variant]order.Policy{
					order.VariantDP: {ForcedShippingDefault: "drone"},
				}
			},
			`unknown shipping id "drone"`,
		},
		{
			"decode default not in table",
			func(c *order.Category) {
				c.Policies = map[order.Variant]order.Policy{
					order.VariantControl: {DecodeShippingDefault: "drone"},
				}
			},
			`unknown shipping id "drone"`,
		},
		{
			"forced option not in table",
			func(c *order.Category) {
				c.Policies = map[order.Variant]order.Policy{
					order.VariantDP: {ForcedOptionDefaults: []string{"warranty"}},
				}
			},
			`unknown option id "warranty"`,
		},
		{
			"emphasized product not in catalog",
			func(c *order.Category) {
				c.Policies = map[order.Variant]order.Policy{
					order.VariantDP: {EmphasizedProductIDs: []string{"p9"}},
				}
			},
			`unknown product id "p9"`,
		},
		{
			"bad disclosure mode",
			func(c *order.Category) {
				c.Policies = map[order.Variant]order.Policy{
					order.VariantDP: {Disclosure: "sometimes"},
				}
			},
			"unknown disclosure mode",
		},
		{
			"bad hidden attribute",
			func(c *order.Category) {
				c.Policies = map[order.Variant]order.Policy{
					order.VariantDP: {HiddenCardAttr: "smell"},
				}
			},
			"unknown attribute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := validCategory()
			tt.mutate(cat)
			err := ValidateCategory(cat)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
