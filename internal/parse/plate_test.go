package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "lowercase seven-char plate gets dashed",
			raw:      "abc1234",
			expected: "ABC-1234",
		},
		{
			name:     "already dashed plate is re-normalized",
			raw:      "ABC-1234",
			expected: "ABC-1234",
		},
		{
			name:     "surrounding whitespace and separators stripped",
			raw:      "  ab c.12 34 ",
			expected: "ABC-1234",
		},
		{
			name:     "mercosul-style plate",
			raw:      "abc1d23",
			expected: "ABC-1D23",
		},
		{
			name:     "short plate passes through cleaned",
			raw:      "ab-123",
			expected: "AB123",
		},
		{
			name:     "long plate passes through cleaned",
			raw:      "ABCD12345",
			expected: "ABCD12345",
		},
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizePlate(tc.raw))
		})
	}
}
