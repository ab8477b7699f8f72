package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/kanolab/patternshop/internal/catalog"
)

// FlowSnapshot is the golden-file shape of one scenario run.
type FlowSnapshot struct {
	Scenario string       `json:"scenario"`
	Category string       `json:"category"`
	Variant  string       `json:"variant"`
	Trace    []TraceEvent `json:"trace"`
}

// RunWithGolden executes a scenario, evaluates its assertions, and
// compares the trace against testdata/golden/{name}.golden.
//
// Regenerate goldens with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, reg *catalog.Registry) {
	t.Helper()

	result, err := Run(scenario, reg)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	for _, aerr := range result.Errors {
		t.Errorf("scenario %s: %v", scenario.Name, aerr)
	}

	snap := FlowSnapshot{
		Scenario: scenario.Name,
		Category: scenario.Category,
		Variant:  scenario.Variant,
		Trace:    result.Trace,
	}
	// Plain & in query strings keeps the goldens readable.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, buf.Bytes())
}
