package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is one scripted walkthrough of a category's flow: a sequence
// of page renders, each reached either from an explicit query string or
// by following a link the previous page offered.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the walkthrough demonstrates.
	Description string `yaml:"description,omitempty"`

	// Category is the category id to walk (e.g. "c3").
	Category string `yaml:"category"`

	// Variant is the presentation variant token. Unrecognized tokens
	// resolve to control, the same as on the wire.
	Variant string `yaml:"variant"`

	// Flow lists the steps in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the trace after the flow completes.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// FlowStep renders one page. Exactly one way of reaching the page must
// be given (or none, for steps with an unambiguous predecessor link).
type FlowStep struct {
	// Step is the page to render: products, shipping or confirm.
	Step string `yaml:"step"`

	// Query seeds the page directly with a raw query string, bypassing
	// link following. The variant key may be omitted; the scenario's
	// variant is injected when absent.
	Query string `yaml:"query,omitempty"`

	// Buy follows the purchase link of a product card from the
	// preceding products page.
	Buy string `yaml:"buy,omitempty"`

	// SelectShipping follows a shipping method's selection link from
	// the preceding shipping page.
	SelectShipping string `yaml:"select_shipping,omitempty"`

	// ToggleOption follows an option's toggle link from the preceding
	// shipping page.
	ToggleOption string `yaml:"toggle_option,omitempty"`

	// Reveal follows the breakdown reveal link from the preceding
	// confirm page.
	Reveal bool `yaml:"reveal,omitempty"`
}

// Step names for FlowStep.Step.
const (
	StepProducts = "products"
	StepShipping = "shipping"
	StepConfirm  = "confirm"
)

var validSteps = map[string]bool{
	StepProducts: true,
	StepShipping: true,
	StepConfirm:  true,
}

// Validate rejects scenarios the runner could not execute, with the flow
// step index (1-based) in every message.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario: name is required")
	}
	if s.Category == "" {
		return fmt.Errorf("scenario %s: category is required", s.Name)
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("scenario %s: flow is empty", s.Name)
	}
	for i, fs := range s.Flow {
		if !validSteps[fs.Step] {
			return fmt.Errorf("scenario %s: flow step %d: unknown step %q", s.Name, i+1, fs.Step)
		}
		directives := 0
		if fs.Query != "" {
			directives++
		}
		if fs.Buy != "" {
			directives++
		}
		if fs.SelectShipping != "" {
			directives++
		}
		if fs.ToggleOption != "" {
			directives++
		}
		if fs.Reveal {
			directives++
		}
		if directives > 1 {
			return fmt.Errorf("scenario %s: flow step %d: more than one navigation directive", s.Name, i+1)
		}
	}
	for i, a := range s.Assertions {
		if err := a.validate(len(s.Flow)); err != nil {
			return fmt.Errorf("scenario %s: assertion %d: %w", s.Name, i+1, err)
		}
	}
	return nil
}

// LoadScenario reads and validates a single scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", filepath.Base(path), err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScenarios reads every .yaml scenario in a directory, sorted by
// filename for stable ordering.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	out := make([]*Scenario, 0, len(files))
	for _, name := range files {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
