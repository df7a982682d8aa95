package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serexlab/serex/codec"
	"github.com/serexlab/serex/value"
)

func TestMsgpackEncodeBytes(t *testing.T) {
	enc, err := codec.Encoder("msgpack")
	require.NoError(t, err)

	m := value.NewMap()
	m.Set("bool", value.Bool(true))

	data, err := enc(m)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x81, 0xA4, 'b', 'o', 'o', 'l', 0xC3}, data)
}

func TestMsgpackDecodePreservesOrder(t *testing.T) {
	dec, err := codec.Decoder("msgpack")
	require.NoError(t, err)

	// fixmap{ "b": 1, "a": 2 }
	input := []byte{0x82, 0xA1, 'b', 0x01, 0xA1, 'a', 0x02}
	v, err := dec(input)
	require.NoError(t, err)

	m := v.(*value.Map)
	assert.Equal(t, []string{"b", "a"}, m.Keys())
}

func TestMsgpackDecodeKinds(t *testing.T) {
	dec, err := codec.Decoder("msgpack")
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    []byte
		expected value.Value
	}{
		{"nil", []byte{0xC0}, value.Null{}},
		{"true", []byte{0xC3}, value.Bool(true)},
		{"fixint", []byte{0x07}, value.Int(7)},
		{"negative fixint", []byte{0xFF}, value.Int(-1)},
		{"uint8", []byte{0xCC, 0xFF}, value.Int(255)},
		{"double", []byte{0xCB, 0x40, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, value.Float(2.5)},
		{"fixstr", []byte{0xA2, 'h', 'i'}, value.String("hi")},
		{"bin", []byte{0xC4, 0x02, 'h', 'i'}, value.String("hi")},
		{"fixarray", []byte{0x92, 0x01, 0x02}, value.Array{value.Int(1), value.Int(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := dec(tt.input)
			require.NoError(t, err)
			assert.True(t, value.Equal(tt.expected, v), "got %s", v)
		})
	}
}

func TestMsgpackDecodeErrors(t *testing.T) {
	dec, err := codec.Decoder("msgpack")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"truncated string", []byte{0xA4, 'b', 'o'}},
		{"truncated map", []byte{0x82, 0xA1, 'b', 0x01}},
		{"non-string map key", []byte{0x81, 0x01, 0xC3}},
		{"uint64 overflow", []byte{0xCF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dec(tt.input)
			var derr *codec.DecodeError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, "msgpack", derr.Format)
		})
	}
}
