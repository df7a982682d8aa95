package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serexlab/serex/codec"
	"github.com/serexlab/serex/value"
)

func TestCSVDecode(t *testing.T) {
	dec, err := codec.Decoder("csv")
	require.NoError(t, err)

	v, err := dec([]byte("name,count,ratio,ok,gap\npat,3,0.5,true,\n"))
	require.NoError(t, err)

	expected := value.Array{
		value.Array{
			value.String("name"), value.String("count"), value.String("ratio"),
			value.String("ok"), value.String("gap"),
		},
		value.Array{
			value.String("pat"), value.Int(3), value.Float(0.5),
			value.Bool(true), value.Null{},
		},
	}
	assert.True(t, value.Equal(expected, v), "got %s", v)
}

func TestCSVDecodeRaggedRecords(t *testing.T) {
	dec, err := codec.Decoder("csv")
	require.NoError(t, err)

	v, err := dec([]byte("a,b,c\nx\n"))
	require.NoError(t, err)

	rows := v.(value.Array)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 3)
	assert.Len(t, rows[1], 1)
}

func TestCSVDecodeError(t *testing.T) {
	dec, err := codec.Decoder("csv")
	require.NoError(t, err)

	_, err = dec([]byte("a,\"unterminated\n"))
	var derr *codec.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "csv", derr.Format)
}
