package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		max      int
		expected int
	}{
		{"valid number", "10", 100, 10},
		{"padded number", " 7 ", 100, 7},
		{"above max", "500", 100, 100},
		{"no max", "500", 0, 500},
		{"zero", "0", 100, 0},
		{"negative number", "-5", 100, 0},
		{"not a number", "abc", 100, 0},
		{"empty string", "", 100, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := ParseLimit(tt.input, tt.max)
			assert.Equal(t, tt.expected, result)
		})
	}
}
