package codec

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/serexlab/serex/value"
)

var urlCodec = Codec{
	Name:   "url",
	Decode: decodeURLForm,
	Encode: encodeURLForm,
}

// decodeURLForm parses application/x-www-form-urlencoded input into a
// flat map.  The pairs are walked in input order rather than through
// url.ParseQuery, which would lose it.  Form values are untyped, so each
// value becomes a String; a repeated key follows the map's last-write-
// wins rule.  Surrounding whitespace is ignored so that a trailing
// newline from a shell pipe does not corrupt the final value.
func decodeURLForm(input []byte) (value.Value, error) {
	m := value.NewMap()
	query := strings.TrimSpace(string(input))
	if query == "" {
		return m, nil
	}
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, &DecodeError{Format: "url", Err: err}
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return nil, &DecodeError{Format: "url", Err: err}
		}
		m.Set(key, value.String(val))
	}
	return m, nil
}

// encodeURLForm requires a flat map of scalar values; arrays and nested
// maps have no form-encoded representation.
func encodeURLForm(v value.Value) ([]byte, error) {
	m, ok := v.(*value.Map)
	if !ok {
		return nil, &EncodeError{Format: "url", Err: fmt.Errorf("top-level value is %s, want map", v.Kind())}
	}
	var b strings.Builder
	for i, k := range m.Keys() {
		item, _ := m.Get(k)
		s, err := urlFormScalar(item)
		if err != nil {
			return nil, &EncodeError{Format: "url", Err: fmt.Errorf("key %q: %w", k, err)}
		}
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(s))
	}
	return []byte(b.String()), nil
}

func urlFormScalar(v value.Value) (string, error) {
	switch x := v.(type) {
	case value.Bool:
		return strconv.FormatBool(bool(x)), nil
	case value.Int:
		return strconv.FormatInt(int64(x), 10), nil
	case value.Float:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), nil
	case value.String:
		return string(x), nil
	}
	return "", fmt.Errorf("%s value has no form encoding", v.Kind())
}
