package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/serexlab/serex/value"
)

var cborCodec = Codec{
	Name:   "cbor",
	Decode: decodeCBOR,
	Encode: encodeCBOR,
}

// The decoder converts unsigned integers to int64 (overflow is an error)
// and produces string-keyed maps.  CBOR maps are decoded through an
// unordered Go map, so keys are sorted when the value is built; encoding
// sorts keys canonically, keeping output deterministic in both
// directions.
var (
	cborDecMode, _ = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	cborEncMode, _ = cbor.EncOptions{Sort: cbor.SortCanonical}.EncMode()
)

func decodeCBOR(input []byte) (value.Value, error) {
	var raw any
	if err := cborDecMode.Unmarshal(input, &raw); err != nil {
		return nil, &DecodeError{Format: "cbor", Err: err}
	}
	v, err := value.FromGo(raw)
	if err != nil {
		return nil, &DecodeError{Format: "cbor", Err: err}
	}
	return v, nil
}

func encodeCBOR(v value.Value) ([]byte, error) {
	out, err := cborEncMode.Marshal(value.ToGo(v))
	if err != nil {
		return nil, &EncodeError{Format: "cbor", Err: err}
	}
	return out, nil
}
