// Package testutil provides deterministic substitutes for the random and
// time-based inputs used in production, so harness runs and store tests
// produce identical output across runs.
package testutil

import (
	"fmt"
	"sync"
	"time"
)

// SequentialTokens returns a generator producing "prefix-1", "prefix-2",
// and so on. Safe for concurrent use.
func SequentialTokens(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// FixedTokens returns a generator producing the given tokens in order.
// Panics when exhausted, a fail-fast signal that a test generated more
// ids than it declared.
func FixedTokens(tokens ...string) func() string {
	var mu sync.Mutex
	idx := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		if idx >= len(tokens) {
			panic("testutil: all fixed tokens exhausted")
		}
		token := tokens[idx]
		idx++
		return token
	}
}

// TickingTime returns a timestamp source that starts at base and advances
// by step on every call.
func TickingTime(base time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := base
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := current
		current = current.Add(step)
		return t
	}
}
