package compiler

import (
	"fmt"

	"github.com/kanolab/patternshop/internal/order"
)

// ValidateCategory checks a compiled category for internal consistency:
// non-empty tables, unique non-empty ids, non-negative prices, and policy
// references that resolve against the category's own tables. A policy
// pointing at an id its tables do not declare would silently price as
// unselected at runtime, so it is rejected at compile time instead.
func ValidateCategory(cat *order.Category) error {
	if len(cat.Products) == 0 {
		return valErr(cat.ID, "products", "at least one product is required")
	}
	if len(cat.Shipping) == 0 {
		return valErr(cat.ID, "shipping", "at least one shipping method is required")
	}

	if err := checkIDs(cat.ID, "products", productIDs(cat.Products)); err != nil {
		return err
	}
	if err := checkIDs(cat.ID, "shipping", shippingIDs(cat.Shipping)); err != nil {
		return err
	}
	if err := checkIDs(cat.ID, "options", optionIDs(cat.Options)); err != nil {
		return err
	}

	for _, p := range cat.Products {
		if p.PriceYen < 0 {
			return valErr(cat.ID, "products."+p.ID, "price_yen must be non-negative")
		}
	}
	for _, m := range cat.Shipping {
		if m.PriceYen < 0 {
			return valErr(cat.ID, "shipping."+m.ID, "price_yen must be non-negative")
		}
	}
	for _, o := range cat.Options {
		if o.PriceYen < 0 {
			return valErr(cat.ID, "options."+o.ID, "price_yen must be non-negative")
		}
	}

	for variant, pol := range cat.Policies {
		field := "policy." + string(variant)
		if err := validatePolicy(cat, field, pol); err != nil {
			return err
		}
	}
	return nil
}

func validatePolicy(cat *order.Category, field string, pol order.Policy) error {
	switch pol.Disclosure {
	case "", order.DisclosureAlwaysOpen, order.DisclosureCollapsed:
	default:
		return valErr(cat.ID, field+".disclosure", fmt.Sprintf("unknown disclosure mode %q", pol.Disclosure))
	}

	if id := pol.ForcedShippingDefault; id != "" {
		if _, ok := cat.ShippingByID(id); !ok {
			return valErr(cat.ID, field+".forced_shipping_default", fmt.Sprintf("unknown shipping id %q", id))
		}
	}
	if id := pol.DecodeShippingDefault; id != "" {
		if _, ok := cat.ShippingByID(id); !ok {
			return valErr(cat.ID, field+".decode_shipping_default", fmt.Sprintf("unknown shipping id %q", id))
		}
	}
	if id := pol.EmphasizedShippingID; id != "" {
		if _, ok := cat.ShippingByID(id); !ok {
			return valErr(cat.ID, field+".emphasized_shipping_id", fmt.Sprintf("unknown shipping id %q", id))
		}
	}
	for _, id := range pol.ForcedOptionDefaults {
		if _, ok := cat.OptionByID(id); !ok {
			return valErr(cat.ID, field+".forced_option_defaults", fmt.Sprintf("unknown option id %q", id))
		}
	}
	for _, id := range pol.EmphasizedProductIDs {
		if _, ok := cat.ProductByID(id); !ok {
			return valErr(cat.ID, field+".emphasized_product_ids", fmt.Sprintf("unknown product id %q", id))
		}
	}
	switch pol.HiddenCardAttr {
	case "", order.CardAttrWeight:
	default:
		return valErr(cat.ID, field+".hidden_card_attr", fmt.Sprintf("unknown attribute %q", pol.HiddenCardAttr))
	}
	return nil
}

func checkIDs(catID, field string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return valErr(catID, field, "id must be non-empty")
		}
		if _, dup := seen[id]; dup {
			return valErr(catID, field, fmt.Sprintf("duplicate id %q", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

func productIDs(ps []order.ProductRef) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func shippingIDs(ms []order.ShippingMethod) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

func optionIDs(os []order.OptionItem) []string {
	ids := make([]string, len(os))
	for i, o := range os {
		ids[i] = o.ID
	}
	return ids
}

func valErr(category, field, message string) error {
	return &CompileError{Category: category, Field: field, Message: message}
}
