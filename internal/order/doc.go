// Package order provides the canonical types for the checkout flow.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import order; order imports nothing internal. This
// ensures the data model remains the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - All prices are whole-yen integers. No floats anywhere.
//   - SelectionState is the canonical cart. It is created when the shopper
//     leaves the products step, mutated only by explicit user actions, and
//     round-tripped through the URL between steps. Nothing is stored
//     server-side.
//   - Option selections are sets: sorted, deduplicated slices. Every
//     constructor and helper preserves that normal form.
//   - A Policy describes what a step may reveal or pre-select. It never
//     changes the pricing contract: the total is always computed from the
//     state actually carried in the URL plus the category's static tables.
package order
