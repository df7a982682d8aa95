package value

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// A Value is the format-neutral representation every codec decodes into and
// encodes from.  For example, the JSON document
//
//	{"id": 123, "tags": ["new"]}
//
// is represented as (in pseudocode for clarity):
//
//	Map{"id": Int(123), "tags": Array{String("new")}}
//
// A Value is always one of exactly seven shapes: Null, Bool, Int, Float,
// String, Array or Map.  Codecs must not leak their library's own types
// through this interface.
type Value interface {
	fmt.Stringer

	// Kind reports which of the seven shapes this value is.
	Kind() Kind
}

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	}
	return "invalid"
}

// Null is the absent value.
type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }

var _ Value = Null{}

// Bool is a boolean value.
type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

var _ Value = Bool(false)

// Int is a signed 64-bit integer.  Int and Float are distinct shapes: a
// codec for a format without that distinction must document the
// canonicalization it applies.
type Int int64

func (Int) Kind() Kind       { return KindInt }
func (n Int) String() string { return strconv.FormatInt(int64(n), 10) }

var _ Value = Int(0)

// Float is a 64-bit floating point value.
type Float float64

func (Float) Kind() Kind { return KindFloat }
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

var _ Value = Float(0)

// String is a UTF-8 string value.
type String string

func (String) Kind() Kind       { return KindString }
func (s String) String() string { return strconv.Quote(string(s)) }

var _ Value = String("")

// Array is an ordered sequence of values.
type Array []Value

func (Array) Kind() Kind { return KindArray }

func (a Array) String() string {
	out := "["
	for i, item := range a {
		if i > 0 {
			out += ", "
		}
		out += item.String()
	}
	return out + "]"
}

var _ Value = Array(nil)

// Map is a mapping from string keys to values.  Insertion order is
// preserved so that formats which care about it (pretty printers, config
// files) round-trip faithfully.  Keys are unique: setting an existing key
// replaces its value in place, last write wins.
type Map struct {
	keys   []string
	values map[string]Value
}

func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

func (*Map) Kind() Kind { return KindMap }

func (m *Map) String() string {
	out := "{"
	for i, k := range m.keys {
		if i > 0 {
			out += ", "
		}
		out += strconv.Quote(k) + ": " + m.values[k].String()
	}
	return out + "}"
}

// Set inserts or replaces the value for key k.
func (m *Map) Set(k string, v Value) {
	if _, exists := m.values[k]; !exists {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Get returns the value for key k, if present.
func (m *Map) Get(k string) (Value, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Keys returns the keys in insertion order.  The returned slice is owned
// by the map and must not be modified.
func (m *Map) Keys() []string { return m.keys }

func (m *Map) Len() int { return len(m.keys) }

var _ Value = &Map{}

// FromGo converts a plain Go value, as produced by a decoding library,
// into a Value.  Unordered Go maps are converted with their keys sorted so
// that the result is deterministic.  Unrepresentable inputs (for example
// integers outside the int64 range) are an error.
func FromGo(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(v), nil
	case int8:
		return Int(v), nil
	case int16:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint:
		return uintValue(uint64(v))
	case uint8:
		return Int(v), nil
	case uint16:
		return Int(v), nil
	case uint32:
		return Int(v), nil
	case uint64:
		return uintValue(v)
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case []byte:
		return String(v), nil
	case *big.Int:
		if !v.IsInt64() {
			return nil, fmt.Errorf("integer %s out of int64 range", v)
		}
		return Int(v.Int64()), nil
	case time.Time:
		return String(v.Format(time.RFC3339)), nil
	case []any:
		return sliceValue(v)
	case map[string]any:
		m := NewMap()
		for _, k := range sortedKeys(v) {
			item, err := FromGo(v[k])
			if err != nil {
				return nil, err
			}
			m.Set(k, item)
		}
		return m, nil
	case map[any]any:
		m := NewMap()
		keys := make(map[string]any, len(v))
		for k, item := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("map key %v is not a string", k)
			}
			keys[ks] = item
		}
		for _, k := range sortedKeys(keys) {
			item, err := FromGo(keys[k])
			if err != nil {
				return nil, err
			}
			m.Set(k, item)
		}
		return m, nil
	case Value:
		return v, nil
	}
	return fromGoReflect(x)
}

// fromGoReflect handles concretely typed slices and maps such as
// []map[string]any, which some decoding libraries produce.
func fromGoReflect(x any) (Value, error) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return sliceValue(items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map with %s keys is not representable", rv.Type().Key())
		}
		plain := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			plain[iter.Key().String()] = iter.Value().Interface()
		}
		return FromGo(plain)
	}
	return nil, fmt.Errorf("cannot represent %T as a value", x)
}

func sliceValue(items []any) (Value, error) {
	arr := make(Array, len(items))
	for i, item := range items {
		v, err := FromGo(item)
		if err != nil {
			return nil, err
		}
		arr[i] = v
	}
	return arr, nil
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("integer %d out of int64 range", u)
	}
	return Int(u), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToGo converts a Value back to a plain Go value for encoding libraries
// that take any: nil, bool, int64, float64, string, []any and
// map[string]any.  Map insertion order is lost in the conversion, so it is
// only suitable for encoders that impose their own key order.
func ToGo(v Value) any {
	switch x := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case Array:
		items := make([]any, len(x))
		for i, item := range x {
			items[i] = ToGo(item)
		}
		return items
	case *Map:
		m := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			item, _ := x.Get(k)
			m[k] = ToGo(item)
		}
		return m
	}
	panic(fmt.Sprintf("invalid value type %T", v))
}

// Equal reports whether two values are structurally equal.  Int and Float
// never compare equal to each other, even when numerically identical.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Null:
		return true
	case Bool:
		return x == b.(Bool)
	case Int:
		return x == b.(Int)
	case Float:
		return x == b.(Float)
	case String:
		return x == b.(String)
	case Array:
		y := b.(Array)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Map:
		y := b.(*Map)
		if x.Len() != y.Len() {
			return false
		}
		for i, k := range x.Keys() {
			if y.Keys()[i] != k {
				return false
			}
			xv, _ := x.Get(k)
			yv, _ := y.Get(k)
			if !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}
