package framing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serexlab/serex/framing"
)

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input    string
		expected byte
	}{
		{"0A", 0x0A},    // bare digits default to hex
		{"ff", 0xFF},
		{"1010b", 10},   // binary suffix
		{"1010B", 10},
		{"10d", 10},     // decimal suffix
		{"76D", 76},
		{"0Ah", 0x0A},   // explicit hex suffix
		{"12o", 0o12},   // octal suffix
		{"0b", 0},       // suffix wins over hex reading of "0b"
		{"0d", 0},
		{"0", 0},
		{"ffh", 0xFF},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := framing.ParseDelimiter(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestParseDelimiterErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"suffix only", "b"},
		{"non-numeral", "zz"},
		{"digit beyond base", "12b"},
		{"decimal overflow", "256d"},
		{"hex overflow", "100h"},
		{"binary overflow", "100000000b"},
		{"negative", "-1d"},
		{"embedded space", "1 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := framing.ParseDelimiter(tt.input)
			require.Error(t, err)
			var derr *framing.DelimiterError
			assert.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.input, derr.Input)
		})
	}
}
