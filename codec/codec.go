// Package codec maps format identifiers to decode and encode routines
// operating on the neutral value model.  Support is capability-based: a
// format registers whichever directions it has, so a decode-only format
// like CSV is representable without runtime "not implemented" failures.
package codec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/serexlab/serex/value"
)

// A DecodeFunc parses one message's bytes into a value.
type DecodeFunc func([]byte) (value.Value, error)

// An EncodeFunc renders a value as one message's bytes.
type EncodeFunc func(value.Value) ([]byte, error)

// A Codec bundles the capabilities of one serialization format.  Either
// function may be nil when the format does not support that direction.
type Codec struct {
	Name   string
	Decode DecodeFunc
	Encode EncodeFunc
}

var codecs = []Codec{
	jsonCodec,
	msgpackCodec,
	cborCodec,
	tomlCodec,
	yamlCodec,
	bincodeCodec,
	pickleCodec,
	urlCodec,
	hjsonCodec,
	csvCodec,
}

// aliases maps alternate spellings and file extensions to format names.
var aliases = map[string]string{
	"yml":        "yaml",
	"mp":         "msgpack",
	"pkl":        "pickle",
	"urlencoded": "url",
}

var registry = func() map[string]Codec {
	m := make(map[string]Codec, len(codecs))
	for _, c := range codecs {
		m[c.Name] = c
	}
	return m
}()

// Lookup finds the codec for a format name, case-insensitively and
// resolving aliases.
func Lookup(name string) (Codec, bool) {
	key := strings.ToLower(name)
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	c, ok := registry[key]
	return c, ok
}

// Names returns the canonical format names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decoder returns the decode function for a format, or a configuration
// error if the format is unknown or cannot be decoded.
func Decoder(name string) (DecodeFunc, error) {
	c, ok := Lookup(name)
	if !ok {
		return nil, &UnknownFormatError{Name: name}
	}
	if c.Decode == nil {
		return nil, &CapabilityError{Format: c.Name, Direction: "decoded"}
	}
	return c.Decode, nil
}

// Encoder returns the encode function for a format, or a configuration
// error if the format is unknown or cannot be encoded.
func Encoder(name string) (EncodeFunc, error) {
	c, ok := Lookup(name)
	if !ok {
		return nil, &UnknownFormatError{Name: name}
	}
	if c.Encode == nil {
		return nil, &CapabilityError{Format: c.Name, Direction: "encoded"}
	}
	return c.Encode, nil
}

// An UnknownFormatError reports a format name with no registered codec.
type UnknownFormatError struct {
	Name string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format %q (supported: %s)", e.Name, strings.Join(Names(), ", "))
}

// A CapabilityError reports a direction a known format does not support.
type CapabilityError struct {
	Format    string
	Direction string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("format %q cannot be %s", e.Format, e.Direction)
}

// A DecodeError reports malformed input for the declared source format.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %s", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// An EncodeError reports a value the target format cannot represent.
type EncodeError struct {
	Format string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encoding %s: %s", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
