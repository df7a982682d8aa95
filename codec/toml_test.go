package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serexlab/serex/codec"
	"github.com/serexlab/serex/value"
)

func TestTOMLDecode(t *testing.T) {
	dec, err := codec.Decoder("toml")
	require.NoError(t, err)

	input := []byte("title = \"demo\"\ncount = 3\nratio = 0.5\n\n[owner]\nname = \"pat\"\n")
	v, err := dec(input)
	require.NoError(t, err)

	m := v.(*value.Map)
	// Tables come through an unordered map, so keys are sorted.
	assert.Equal(t, []string{"count", "owner", "ratio", "title"}, m.Keys())

	count, _ := m.Get("count")
	assert.Equal(t, value.Int(3), count)
	ratio, _ := m.Get("ratio")
	assert.Equal(t, value.Float(0.5), ratio)
	owner, _ := m.Get("owner")
	name, _ := owner.(*value.Map).Get("name")
	assert.Equal(t, value.String("pat"), name)
}

func TestTOMLDecodeDatetime(t *testing.T) {
	dec, err := codec.Decoder("toml")
	require.NoError(t, err)

	v, err := dec([]byte("dob = 1979-05-27T07:32:00Z\n"))
	require.NoError(t, err)
	dob, _ := v.(*value.Map).Get("dob")
	assert.Equal(t, value.String("1979-05-27T07:32:00Z"), dob)
}

func TestTOMLDecodeError(t *testing.T) {
	dec, err := codec.Decoder("toml")
	require.NoError(t, err)

	_, err = dec([]byte("= broken"))
	var derr *codec.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "toml", derr.Format)
}

func TestTOMLEncodeRoundTrip(t *testing.T) {
	m := value.NewMap()
	m.Set("active", value.Bool(true))
	m.Set("count", value.Int(3))
	m.Set("name", value.String("demo"))
	m.Set("tags", value.Array{value.String("a"), value.String("b")})

	out := roundTrip(t, "toml", m)
	assert.True(t, value.Equal(m, out), "got %s", out)
}

func TestTOMLEncodeErrors(t *testing.T) {
	enc, err := codec.Encoder("toml")
	require.NoError(t, err)

	withNull := value.NewMap()
	withNull.Set("gap", value.Null{})

	tests := []struct {
		name  string
		input value.Value
	}{
		{"top-level scalar", value.Int(1)},
		{"top-level array", value.Array{value.Int(1)}},
		{"null in tree", withNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc(tt.input)
			var eerr *codec.EncodeError
			require.ErrorAs(t, err, &eerr)
			assert.Equal(t, "toml", eerr.Format)
		})
	}
}
