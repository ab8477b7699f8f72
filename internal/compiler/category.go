// Package compiler turns CUE category definitions into order.Category
// values and validates their internal consistency.
//
// Category definitions are data, not code: one CUE file per experiment
// category declaring its catalog, shipping and options tables, task
// thresholds, and one presentation policy per variant. Adding a category
// is adding a file.
//
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/kanolab/patternshop/internal/order"
)

// CompileError reports a problem in a category definition with its CUE
// position when available.
type CompileError struct {
	Category string
	Field    string
	Message  string
	Pos      token.Pos
}

func (e *CompileError) Error() string {
	where := e.Field
	if e.Category != "" {
		where = e.Category + "." + e.Field
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), where, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// CompileCategories parses every entry under the top-level "category"
// struct, in source order. Each compiled category is validated before it
// is returned; the first invalid definition aborts the compile.
func CompileCategories(v cue.Value) ([]*order.Category, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := v.LookupPath(cue.ParsePath("category"))
	if !root.Exists() {
		return nil, &CompileError{Field: "category", Message: "top-level category struct is required", Pos: v.Pos()}
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var cats []*order.Category
	for iter.Next() {
		cat, err := CompileCategory(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	if len(cats) == 0 {
		return nil, &CompileError{Field: "category", Message: "at least one category is required", Pos: root.Pos()}
	}
	return cats, nil
}

// CompileCategory parses a single category struct.
func CompileCategory(id string, v cue.Value) (*order.Category, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cat := &order.Category{ID: id}

	titleVal := v.LookupPath(cue.ParsePath("title"))
	if !titleVal.Exists() {
		return nil, &CompileError{Category: id, Field: "title", Message: "title is required", Pos: v.Pos()}
	}
	title, err := titleVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	cat.Title = title

	if taskVal := v.LookupPath(cue.ParsePath("task")); taskVal.Exists() {
		if cat.Task, err = taskVal.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}

	if thrVal := v.LookupPath(cue.ParsePath("thresholds")); thrVal.Exists() {
		if err := thrVal.Decode(&cat.Thresholds); err != nil {
			return nil, formatCUEError(err)
		}
	}

	if err := decodeSection(id, v, "products", &cat.Products); err != nil {
		return nil, err
	}
	if err := decodeSection(id, v, "shipping", &cat.Shipping); err != nil {
		return nil, err
	}
	if err := decodeSection(id, v, "options", &cat.Options); err != nil {
		return nil, err
	}

	cat.Policies, err = compilePolicies(id, v)
	if err != nil {
		return nil, err
	}

	if err := ValidateCategory(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// decodeSection decodes a required list section into its table slice.
func decodeSection[T any](id string, v cue.Value, field string, into *[]T) error {
	val := v.LookupPath(cue.ParsePath(field))
	if !val.Exists() {
		return &CompileError{Category: id, Field: field, Message: field + " table is required", Pos: v.Pos()}
	}
	if err := val.Decode(into); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// compilePolicies parses the optional policy struct, keyed by variant.
// Only "control" and "dp" keys are accepted; a category may declare
// neither (fully neutral presentation in both variants).
func compilePolicies(id string, v cue.Value) (map[order.Variant]order.Policy, error) {
	polVal := v.LookupPath(cue.ParsePath("policy"))
	if !polVal.Exists() {
		return nil, nil
	}

	iter, err := polVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	policies := make(map[order.Variant]order.Policy)
	for iter.Next() {
		key := iter.Selector().Unquoted()
		if key != string(order.VariantControl) && key != string(order.VariantDP) {
			return nil, &CompileError{
				Category: id,
				Field:    "policy." + key,
				Message:  `variant must be "control" or "dp"`,
				Pos:      iter.Value().Pos(),
			}
		}
		var pol order.Policy
		if err := iter.Value().Decode(&pol); err != nil {
			return nil, formatCUEError(err)
		}
		policies[order.Variant(key)] = pol
	}
	if len(policies) == 0 {
		return nil, nil
	}
	return policies, nil
}

// formatCUEError converts CUE SDK errors into readable compile errors,
// preserving position information where CUE provides it.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		return err
	}
	first := cueErrs[0]
	pos := first.Position()
	msg := first.Error()
	if pos.IsValid() {
		return &CompileError{Field: "cue", Message: msg, Pos: pos}
	}
	return &CompileError{Field: "cue", Message: msg}
}
