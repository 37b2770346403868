package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeIdentifiers(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "case and spacing collapse", input: []string{" cmpsc  131", "CMPSC 131", "math 140"}, expected: []string{"CMPSC 131", "MATH 140"}},
		{name: "blank entries dropped", input: []string{"", " \t", "engl 15"}, expected: []string{"ENGL 15"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeIdentifiers(tt.input))
		})
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "STAT 414", NormalizeIdentifier("  stat\t414 "))
	assert.Equal(t, "", NormalizeIdentifier("   "))
}
