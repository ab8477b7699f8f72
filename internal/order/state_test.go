package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeState() SelectionState {
	return SelectionState{
		Variant:      VariantControl,
		ProductID:    "p2",
		ProductPrice: 2880,
		ShippingID:   "normal",
		Options:      []string{"giftwrap", "insurance"},
	}
}

func TestNormalizeOptions(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil stays nil", nil, nil},
		{"empty stays nil", []string{}, nil},
		{"duplicates collapse", []string{"a", "a", "b"}, []string{"a", "b"}},
		{"sorted", []string{"insurance", "giftwrap"}, []string{"giftwrap", "insurance"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOptions(tt.in))
		})
	}
}

func TestToggleOption_Idempotent(t *testing.T) {
	s := makeState()

	once := s.ToggleOption("warranty")
	assert.True(t, once.HasOption("warranty"))

	twice := once.ToggleOption("warranty")
	assert.True(t, s.Equal(twice), "toggling twice must return the original state")
}

func TestToggleOption_RemoveLastLeavesNil(t *testing.T) {
	s := SelectionState{Options: []string{"insurance"}}
	next := s.ToggleOption("insurance")
	assert.Nil(t, next.Options)
}

func TestToggleOption_DoesNotMutateReceiver(t *testing.T) {
	s := makeState()
	_ = s.ToggleOption("giftwrap")
	require.Equal(t, []string{"giftwrap", "insurance"}, s.Options)
}

func TestAddOptions_Union(t *testing.T) {
	s := SelectionState{Options: []string{"warranty"}}

	next := s.AddOptions("newsletter", "warranty")
	assert.Equal(t, []string{"newsletter", "warranty"}, next.Options)

	// Idempotent: forcing the same defaults again changes nothing.
	again := next.AddOptions("newsletter", "warranty")
	assert.True(t, next.Equal(again))
}

func TestWithShipping(t *testing.T) {
	s := makeState()
	next := s.WithShipping("express")
	assert.Equal(t, "express", next.ShippingID)
	assert.Equal(t, "normal", s.ShippingID)
}

func TestEqual(t *testing.T) {
	s := makeState()
	assert.True(t, s.Equal(s.Clone()))

	diff := s.Clone()
	diff.ShippingID = ""
	assert.False(t, s.Equal(diff), "unselected shipping is distinct from any concrete id")
}
