package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serexlab/serex/codec"
	"github.com/serexlab/serex/value"
)

func TestPickleRoundTrip(t *testing.T) {
	m := value.NewMap()
	m.Set("active", value.Bool(true))
	m.Set("count", value.Int(-3))
	m.Set("gap", value.Null{})
	m.Set("name", value.String("demo"))
	m.Set("ratio", value.Float(0.5))

	out := roundTrip(t, "pickle", m)
	// Dicts are unordered on the wire; keys come back sorted here
	// because they were inserted sorted.
	assert.True(t, value.Equal(m, out), "got %s", out)
}

func TestPickleDecodeSortsDictKeys(t *testing.T) {
	dec, err := codec.Decoder("pickle")
	require.NoError(t, err)
	enc, err := codec.Encoder("pickle")
	require.NoError(t, err)

	src := value.NewMap()
	src.Set("zebra", value.Int(1))
	src.Set("apple", value.Int(2))

	data, err := enc(src)
	require.NoError(t, err)
	v, err := dec(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "zebra"}, v.(*value.Map).Keys())
}

func TestPickleDecodeTupleBecomesArray(t *testing.T) {
	dec, err := codec.Decoder("pickle")
	require.NoError(t, err)

	// Protocol 2: (1, 2) as a two-item tuple.
	input := []byte{0x80, 0x02, 'K', 0x01, 'K', 0x02, 0x86, '.'}
	v, err := dec(input)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Array{value.Int(1), value.Int(2)}, v), "got %s", v)
}

func TestPickleDecodeError(t *testing.T) {
	dec, err := codec.Decoder("pickle")
	require.NoError(t, err)

	_, err = dec([]byte{0x80})
	var derr *codec.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "pickle", derr.Format)
}

func TestURLFormDecode(t *testing.T) {
	dec, err := codec.Decoder("url")
	require.NoError(t, err)

	v, err := dec([]byte("zebra=1&apple=two+words&bare\n"))
	require.NoError(t, err)

	m := v.(*value.Map)
	assert.Equal(t, []string{"zebra", "apple", "bare"}, m.Keys())

	// Form values are untyped, so everything is a string.
	zebra, _ := m.Get("zebra")
	assert.Equal(t, value.String("1"), zebra)
	apple, _ := m.Get("apple")
	assert.Equal(t, value.String("two words"), apple)
	bare, _ := m.Get("bare")
	assert.Equal(t, value.String(""), bare)
}

func TestURLFormDecodeEscapeError(t *testing.T) {
	dec, err := codec.Decoder("url")
	require.NoError(t, err)

	_, err = dec([]byte("a=%zz"))
	var derr *codec.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "url", derr.Format)
}

func TestURLFormEncode(t *testing.T) {
	enc, err := codec.Encoder("url")
	require.NoError(t, err)

	m := value.NewMap()
	m.Set("q", value.String("two words"))
	m.Set("n", value.Int(3))
	m.Set("ok", value.Bool(true))

	data, err := enc(m)
	require.NoError(t, err)
	assert.Equal(t, "q=two+words&n=3&ok=true", string(data))
}

func TestURLFormEncodeErrors(t *testing.T) {
	enc, err := codec.Encoder("url")
	require.NoError(t, err)

	nested := value.NewMap()
	nested.Set("inner", value.NewMap())
	withNull := value.NewMap()
	withNull.Set("gap", value.Null{})

	tests := []struct {
		name  string
		input value.Value
	}{
		{"top-level scalar", value.String("x")},
		{"nested map", nested},
		{"null value", withNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc(tt.input)
			var eerr *codec.EncodeError
			require.ErrorAs(t, err, &eerr)
			assert.Equal(t, "url", eerr.Format)
		})
	}
}
