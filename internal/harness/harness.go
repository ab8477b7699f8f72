// Package harness runs scripted flow walkthroughs against compiled
// categories and checks them with assertions and golden traces.
//
// The harness renders pages headlessly through the same decode and view
// pipeline the HTTP layer uses, so a scenario exercises the codec, the
// policy application and the pricing contract together. Navigation
// follows the links the previous page actually emitted, which is how the
// carry-forward behavior of injected defaults gets covered.
package harness

import (
	"fmt"
	"net/url"

	"github.com/kanolab/patternshop/internal/catalog"
	"github.com/kanolab/patternshop/internal/order"
	"github.com/kanolab/patternshop/internal/policy"
	"github.com/kanolab/patternshop/internal/wire"
)

// TraceEvent records one rendered page.
type TraceEvent struct {
	Seq   int    `json:"seq"`
	Step  string `json:"step"`
	// Query is the canonical form of the query the page received, keys
	// sorted, before any policy injection.
	Query string `json:"query"`
	// Shipping is the effective shipping title, or 未選択.
	Shipping string `json:"shipping,omitempty"`
	// Options are the effective option ids, in set order.
	Options []string `json:"options,omitempty"`
	// Shown is the breakdown as the page displayed it. Absent on the
	// products step and on a collapsed confirm page.
	Shown *order.PricingBreakdown `json:"shown,omitempty"`
	// Total is the canonical total, independent of what was shown.
	Total int `json:"total,omitempty"`
	// BreakdownVisible is set on confirm steps only.
	BreakdownVisible *bool `json:"breakdown_visible,omitempty"`
}

// Result is the outcome of running one scenario.
type Result struct {
	Scenario string
	Passed   bool
	Trace    []TraceEvent
	Errors   []error
}

// Run executes a scenario against the registry and evaluates its
// assertions. An error return means the scenario itself could not be
// executed; assertion failures land in Result.Errors instead.
func Run(scenario *Scenario, reg *catalog.Registry) (*Result, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	cat, ok := reg.Lookup(scenario.Category)
	if !ok {
		return nil, fmt.Errorf("scenario %s: unknown category %q", scenario.Name, scenario.Category)
	}

	r := &runner{
		cat:     cat,
		variant: order.ResolveVariant(scenario.Variant),
		links:   wire.LinkBuilder{BasePath: "/v0"},
	}

	result := &Result{Scenario: scenario.Name, Passed: true}
	for i, fs := range scenario.Flow {
		ev, err := r.execute(i, fs)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: flow step %d: %w", scenario.Name, i+1, err)
		}
		result.Trace = append(result.Trace, ev)
	}

	for i, a := range scenario.Assertions {
		if err := evaluate(a, result.Trace); err != nil {
			result.Passed = false
			result.Errors = append(result.Errors, fmt.Errorf("assertion %d: %w", i+1, err))
		}
	}
	return result, nil
}

// runner holds the walkthrough position: the last rendered view of each
// page kind, for link following.
type runner struct {
	cat     *order.Category
	variant order.Variant
	links   wire.LinkBuilder

	products *policy.ProductsView
	shipping *policy.ShippingView
	confirm  *policy.ConfirmView
}

func (r *runner) execute(i int, fs FlowStep) (TraceEvent, error) {
	target, err := r.target(fs)
	if err != nil {
		return TraceEvent{}, err
	}
	u, err := url.Parse(target)
	if err != nil {
		return TraceEvent{}, fmt.Errorf("parse link %q: %w", target, err)
	}
	q := u.Query()
	if !q.Has(wire.ParamVariant) {
		q.Set(wire.ParamVariant, string(r.variant))
	}

	ev := TraceEvent{Seq: i + 1, Step: fs.Step, Query: q.Encode()}

	switch fs.Step {
	case StepProducts:
		v := policy.BuildProducts(r.cat, order.ResolveVariant(q.Get(wire.ParamVariant)), r.links)
		r.products = &v

	case StepShipping:
		v := policy.BuildShipping(r.cat, r.decode(q), r.links)
		r.shipping = &v
		ev.Shipping = v.ShippingTitle
		ev.Options = v.Effective.Options
		shown := v.Shown
		ev.Shown = &shown
		ev.Total = v.Breakdown.TotalYen

	case StepConfirm:
		revealed := q.Get(wire.RevealParam) == "1"
		v := policy.BuildConfirm(r.cat, r.decode(q), revealed, r.links)
		r.confirm = &v
		ev.Shipping = v.ShippingTitle
		ev.Options = v.Effective.Options
		if v.BreakdownVisible {
			shown := v.Breakdown
			ev.Shown = &shown
		}
		ev.Total = v.Breakdown.TotalYen
		visible := v.BreakdownVisible
		ev.BreakdownVisible = &visible
	}
	return ev, nil
}

func (r *runner) decode(q url.Values) order.SelectionState {
	variant := order.ResolveVariant(q.Get(wire.ParamVariant))
	return wire.Decode(q, r.cat, wire.DefaultsFor(r.cat.Policy(variant)))
}

// target resolves the URL a step renders, following a link from the
// previous page unless an explicit query was given.
func (r *runner) target(fs FlowStep) (string, error) {
	if fs.Query != "" {
		return "/v0/" + r.cat.ID + "/" + fs.Step + "?" + fs.Query, nil
	}

	switch fs.Step {
	case StepProducts:
		return r.links.Link(r.cat.ID, wire.StepProducts, order.SelectionState{Variant: r.variant}), nil

	case StepShipping:
		switch {
		case fs.Buy != "":
			if r.products == nil {
				return "", fmt.Errorf("buy %q: no preceding products page", fs.Buy)
			}
			for _, card := range r.products.Cards {
				if card.Product.ID == fs.Buy {
					return card.BuyURL, nil
				}
			}
			return "", fmt.Errorf("buy %q: no such product card", fs.Buy)
		case fs.SelectShipping != "":
			if r.shipping == nil {
				return "", fmt.Errorf("select_shipping %q: no preceding shipping page", fs.SelectShipping)
			}
			for _, c := range r.shipping.Choices {
				if c.Method.ID == fs.SelectShipping {
					return c.SelectURL, nil
				}
			}
			return "", fmt.Errorf("select_shipping %q: no such method", fs.SelectShipping)
		case fs.ToggleOption != "":
			if r.shipping == nil {
				return "", fmt.Errorf("toggle_option %q: no preceding shipping page", fs.ToggleOption)
			}
			for _, o := range r.shipping.Options {
				if o.Item.ID == fs.ToggleOption {
					return o.ToggleURL, nil
				}
			}
			return "", fmt.Errorf("toggle_option %q: no such option", fs.ToggleOption)
		default:
			return "", fmt.Errorf("shipping step needs query, buy, select_shipping or toggle_option")
		}

	case StepConfirm:
		if fs.Reveal {
			if r.confirm == nil || r.confirm.RevealURL == "" {
				return "", fmt.Errorf("reveal: no preceding collapsed confirm page")
			}
			return r.confirm.RevealURL, nil
		}
		if r.shipping == nil {
			return "", fmt.Errorf("confirm step needs query or a preceding shipping page")
		}
		return r.shipping.ConfirmURL, nil
	}
	return "", fmt.Errorf("unknown step %q", fs.Step)
}
