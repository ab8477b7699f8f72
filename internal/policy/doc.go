// Package policy applies a category x variant presentation policy to the
// canonical checkout state and produces the view model for each step.
//
// Every step runs the same total pipeline:
//
//	Entry (decode) -> Apply forced defaults -> Compute pricing ->
//	Apply disclosure/emphasis -> Render -> Exit (user action re-encodes)
//
// No transition can fail given a well-formed category definition.
//
// The policy is the component that encodes the experimental manipulation.
// It is table-driven: one Policy row per category x variant pair, looked
// up once per request. Adding an experiment category means adding a data
// row, not a code path.
//
// The split that matters here: canonical state is what the URL carries and
// what determines the eventual total; effective state is canonical state
// after forced defaults, used for pricing display and carried forward
// explicitly by the links each view emits. Disclosure and emphasis change
// visibility only, never the numbers.
package policy
