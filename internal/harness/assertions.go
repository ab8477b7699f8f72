package harness

import (
	"fmt"
	"reflect"
)

// Assertion validates one trace event after a flow completes.
type Assertion struct {
	// Type selects the check: total, shown_total, shipping, options or
	// breakdown_visible.
	Type string `yaml:"type"`

	// At is the 1-based flow step index to check. Zero means the last
	// step.
	At int `yaml:"at,omitempty"`

	// Yen is the expected amount (total, shown_total).
	Yen int `yaml:"yen,omitempty"`

	// Shipping is the expected effective shipping title (shipping).
	Shipping string `yaml:"shipping,omitempty"`

	// Options are the expected effective option ids in set order
	// (options). An empty list asserts no options.
	Options []string `yaml:"options,omitempty"`

	// Visible is the expectation for breakdown_visible.
	Visible bool `yaml:"visible,omitempty"`
}

// Assertion type names.
const (
	AssertTotal            = "total"
	AssertShownTotal       = "shown_total"
	AssertShipping         = "shipping"
	AssertOptions          = "options"
	AssertBreakdownVisible = "breakdown_visible"
)

var validAssertions = map[string]bool{
	AssertTotal:            true,
	AssertShownTotal:       true,
	AssertShipping:         true,
	AssertOptions:          true,
	AssertBreakdownVisible: true,
}

func (a Assertion) validate(flowLen int) error {
	if !validAssertions[a.Type] {
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	if a.At < 0 || a.At > flowLen {
		return fmt.Errorf("at %d out of range (flow has %d steps)", a.At, flowLen)
	}
	return nil
}

// AssertionError reports one failed check with the step it inspected.
type AssertionError struct {
	Type     string
	Step     int
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s at step %d: expected %s, got %s", e.Type, e.Step, e.Expected, e.Actual)
}

func evaluate(a Assertion, trace []TraceEvent) error {
	idx := a.At
	if idx == 0 {
		idx = len(trace)
	}
	ev := trace[idx-1]

	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Step: idx, Expected: expected, Actual: actual}
	}

	switch a.Type {
	case AssertTotal:
		if ev.Total != a.Yen {
			return fail(fmt.Sprintf("total %d", a.Yen), fmt.Sprintf("%d", ev.Total))
		}
	case AssertShownTotal:
		if ev.Shown == nil {
			return fail(fmt.Sprintf("shown total %d", a.Yen), "no breakdown shown")
		}
		if ev.Shown.TotalYen != a.Yen {
			return fail(fmt.Sprintf("shown total %d", a.Yen), fmt.Sprintf("%d", ev.Shown.TotalYen))
		}
	case AssertShipping:
		if ev.Shipping != a.Shipping {
			return fail(fmt.Sprintf("shipping %q", a.Shipping), fmt.Sprintf("%q", ev.Shipping))
		}
	case AssertOptions:
		want := a.Options
		if want == nil {
			want = []string{}
		}
		got := ev.Options
		if got == nil {
			got = []string{}
		}
		if !reflect.DeepEqual(want, got) {
			return fail(fmt.Sprintf("options %v", want), fmt.Sprintf("%v", got))
		}
	case AssertBreakdownVisible:
		if ev.BreakdownVisible == nil {
			return fail(fmt.Sprintf("breakdown_visible %v", a.Visible), "not a confirm step")
		}
		if *ev.BreakdownVisible != a.Visible {
			return fail(fmt.Sprintf("breakdown_visible %v", a.Visible), fmt.Sprintf("%v", *ev.BreakdownVisible))
		}
	}
	return nil
}
