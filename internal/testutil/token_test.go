package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSequentialTokens(t *testing.T) {
	gen := SequentialTokens("sess")
	assert.Equal(t, "sess-1", gen())
	assert.Equal(t, "sess-2", gen())
}

func TestFixedTokens(t *testing.T) {
	gen := FixedTokens("a", "b")
	assert.Equal(t, "a", gen())
	assert.Equal(t, "b", gen())
	assert.Panics(t, func() { gen() })
}

func TestTickingTime(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	now := TickingTime(base, time.Second)

	assert.Equal(t, base, now())
	assert.Equal(t, base.Add(time.Second), now())
}
