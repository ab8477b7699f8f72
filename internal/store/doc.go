// Package store provides durable storage for the experiment's funnel
// event log.
//
// The checkout itself stores nothing server-side: canonical state rides
// in the URL. What the experiment needs to observe is the funnel - which
// steps a session rendered, with which state and total, under which
// variant. Each render and each reveal action appends one immutable event
// row keyed by a per-browser session token.
//
// Uses SQLite with WAL mode for concurrent read access. A single
// in-process writer assigns a monotonic per-store sequence, so replaying
// a session is a deterministic ORDER BY seq read; user actions can be
// reconstructed by diffing consecutive state snapshots.
package store
