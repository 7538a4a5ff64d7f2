package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/till/internal/fold"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		substr string
		want   bool
	}{
		{name: "ExactCase", s: "Espresso", substr: "press", want: true},
		{name: "MixedCase", s: "Orange Juice", substr: "JUICE", want: true},
		{name: "Missing", s: "Latte", substr: "mocha", want: false},
		{name: "EmptyNeedle", s: "Tea", substr: "", want: true},
		{name: "Sharp", s: "Straße", substr: "STRASSE", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fold.Contains(tt.s, tt.substr))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, fold.Equal("Muffin", "mUFFIN"))
	assert.False(t, fold.Equal("Muffin", "Muffins"))
}
