package wire

import (
	"net/url"

	"github.com/kanolab/patternshop/internal/order"
)

// Step identifies one of the three flow pages within a category.
type Step string

const (
	StepProducts Step = "products"
	StepShipping Step = "shipping"
	StepConfirm  Step = "confirm"
)

// RevealParam is the confirm-step query flag that opens a collapsed
// breakdown. View state only: it is not part of the wire state and is
// never carried forward by links built from a SelectionState.
const RevealParam = "reveal"

// LinkBuilder produces step URLs carrying an encoded SelectionState.
//
// Every field not named by an override is preserved, including the absence
// of shippingId when unselected. The products step is the flow entry and
// carries only the variant.
type LinkBuilder struct {
	// BasePath prefixes every path, e.g. "/v0".
	BasePath string
}

// A LinkOption overrides one field of the state before encoding.
type LinkOption func(*order.SelectionState)

// WithShipping sets the shipping id.
func WithShipping(id string) LinkOption {
	return func(s *order.SelectionState) { *s = s.WithShipping(id) }
}

// WithToggledOption toggles one option id, leaving the rest intact.
func WithToggledOption(id string) LinkOption {
	return func(s *order.SelectionState) { *s = s.ToggleOption(id) }
}

// WithProduct sets the chosen product and its price.
func WithProduct(p order.ProductRef) LinkOption {
	return func(s *order.SelectionState) {
		next := s.Clone()
		next.ProductID = p.ID
		next.ProductPrice = p.PriceYen
		*s = next
	}
}

// Link builds the URL for a step, merging overrides into a copy of the
// state before encoding.
func (b LinkBuilder) Link(categoryID string, step Step, s order.SelectionState, opts ...LinkOption) string {
	next := s.Clone()
	for _, opt := range opts {
		opt(&next)
	}

	q := Encode(next)
	if step == StepProducts {
		// Entry step: only the variant survives.
		q = url.Values{ParamVariant: []string{string(next.Variant)}}
	}
	return b.path(categoryID, step) + "?" + q.Encode()
}

// RevealLink builds the confirm URL for the same state with the breakdown
// reveal flag set.
func (b LinkBuilder) RevealLink(categoryID string, s order.SelectionState) string {
	q := Encode(s)
	q.Set(RevealParam, "1")
	return b.path(categoryID, StepConfirm) + "?" + q.Encode()
}

// IndexLink is the category index (experiment top page).
func (b LinkBuilder) IndexLink() string {
	if b.BasePath == "" {
		return "/"
	}
	return b.BasePath
}

func (b LinkBuilder) path(categoryID string, step Step) string {
	return b.BasePath + "/" + categoryID + "/" + string(step)
}
