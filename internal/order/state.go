package order

import (
	"slices"
)

// SelectionState is the canonical cart: everything the shopper has chosen
// so far, carried between steps in the URL. Mutated only by explicit user
// actions (choose shipping, toggle option); rendering never mutates it.
//
// ShippingID == "" means "unselected", which is distinct from any concrete
// id and survives the whole pipeline (codec, pricing, confirmation) unless
// the category's policy says otherwise.
type SelectionState struct {
	Variant      Variant `json:"variant"`
	ProductID    string  `json:"product_id"`
	ProductPrice int     `json:"product_price"`
	ShippingID   string  `json:"shipping_id,omitempty"`
	// Options is a set: sorted and deduplicated. Use the helpers below to
	// keep it that way.
	Options []string `json:"options,omitempty"`
}

// NormalizeOptions returns ids as a sorted set with duplicates collapsed.
func NormalizeOptions(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// HasOption reports whether the option id is selected.
func (s SelectionState) HasOption(id string) bool {
	return slices.Contains(s.Options, id)
}

// ToggleOption returns a copy with the option id added if absent or
// removed if present. Toggling twice returns an equal state.
func (s SelectionState) ToggleOption(id string) SelectionState {
	next := s.Clone()
	if i := slices.Index(next.Options, id); i >= 0 {
		next.Options = slices.Delete(next.Options, i, i+1)
		if len(next.Options) == 0 {
			next.Options = nil
		}
		return next
	}
	next.Options = NormalizeOptions(append(next.Options, id))
	return next
}

// AddOptions returns a copy with every id force-added (set union).
// Idempotent: adding an already-selected id changes nothing.
func (s SelectionState) AddOptions(ids ...string) SelectionState {
	if len(ids) == 0 {
		return s.Clone()
	}
	next := s.Clone()
	next.Options = NormalizeOptions(append(next.Options, ids...))
	return next
}

// WithShipping returns a copy with the shipping id set.
func (s SelectionState) WithShipping(id string) SelectionState {
	next := s.Clone()
	next.ShippingID = id
	return next
}

// Clone returns a deep copy. The Options slice is never shared.
func (s SelectionState) Clone() SelectionState {
	next := s
	next.Options = slices.Clone(s.Options)
	return next
}

// Equal reports whether two states are identical field for field.
func (s SelectionState) Equal(o SelectionState) bool {
	return s.Variant == o.Variant &&
		s.ProductID == o.ProductID &&
		s.ProductPrice == o.ProductPrice &&
		s.ShippingID == o.ShippingID &&
		slices.Equal(s.Options, o.Options)
}
