package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serexlab/serex/codec"
	"github.com/serexlab/serex/value"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"json", "json"},
		{"JSON", "json"},
		{"yml", "yaml"},
		{"YML", "yaml"},
		{"mp", "msgpack"},
		{"pkl", "pickle"},
		{"urlencoded", "url"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := codec.Lookup(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.expected, c.Name)
		})
	}

	_, ok := codec.Lookup("protobuf")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	names := codec.Names()
	assert.Equal(t, []string{
		"bincode", "cbor", "csv", "hjson", "json",
		"msgpack", "pickle", "toml", "url", "yaml",
	}, names)
}

func TestDecoderUnknownFormat(t *testing.T) {
	_, err := codec.Decoder("avro")
	var uerr *codec.UnknownFormatError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "avro", uerr.Name)
	assert.Contains(t, err.Error(), "supported:")
}

func TestEncoderCapability(t *testing.T) {
	// CSV can only be decoded.
	_, err := codec.Decoder("csv")
	require.NoError(t, err)

	_, err = codec.Encoder("csv")
	var cerr *codec.CapabilityError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "csv", cerr.Format)
	assert.Contains(t, err.Error(), "cannot be encoded")
}

func TestAllOtherFormatsAreBidirectional(t *testing.T) {
	for _, name := range codec.Names() {
		if name == "csv" {
			continue
		}
		_, err := codec.Decoder(name)
		assert.NoError(t, err, "decoder for %s", name)
		_, err = codec.Encoder(name)
		assert.NoError(t, err, "encoder for %s", name)
	}
}

// sampleValue builds a value exercising every kind, with map keys in
// sorted order so it survives codecs that sort keys on decode.
func sampleValue() value.Value {
	inner := value.NewMap()
	inner.Set("deep", value.Bool(false))

	m := value.NewMap()
	m.Set("arr", value.Array{value.Int(1), value.Int(2), value.Int(3)})
	m.Set("flag", value.Bool(true))
	m.Set("inner", inner)
	m.Set("nothing", value.Null{})
	m.Set("pi", value.Float(3.25))
	m.Set("text", value.String("héllo"))
	return m
}

// roundTrip encodes and re-decodes a value through one format.
func roundTrip(t *testing.T, format string, v value.Value) value.Value {
	t.Helper()
	enc, err := codec.Encoder(format)
	require.NoError(t, err)
	dec, err := codec.Decoder(format)
	require.NoError(t, err)

	data, err := enc(v)
	require.NoError(t, err)
	out, err := dec(data)
	require.NoError(t, err, "decoding %q", data)
	return out
}

func TestRoundTrips(t *testing.T) {
	sample := sampleValue()
	for _, format := range []string{"json", "msgpack", "cbor", "yaml", "bincode", "pickle", "hjson"} {
		t.Run(format, func(t *testing.T) {
			out := roundTrip(t, format, sample)
			assert.True(t, value.Equal(sample, out), "got %s", out)
		})
	}
}
