package framing

import (
	"fmt"
	"io"
	"strings"
)

// Radix selects the numeral base used by a RadixWriter.  The zero value
// means no radix display is configured.
type Radix uint8

const (
	Binary Radix = iota + 1
	Decimal
	Hexadecimal
	Octal
)

func (r Radix) String() string {
	switch r {
	case Binary:
		return "binary"
	case Decimal:
		return "decimal"
	case Hexadecimal:
		return "hexadecimal"
	case Octal:
		return "octal"
	}
	return "none"
}

// ParseRadix accepts the usual spellings of each radix: the initial
// letter, the three-letter abbreviation or the full name, in any case.
func ParseRadix(s string) (Radix, error) {
	switch strings.ToLower(s) {
	case "b", "bin", "binary":
		return Binary, nil
	case "d", "dec", "decimal":
		return Decimal, nil
	case "h", "hex", "hexadecimal":
		return Hexadecimal, nil
	case "o", "oct", "octal":
		return Octal, nil
	}
	return 0, fmt.Errorf("invalid radix %q: want bin, dec, hex or oct", s)
}

// A RadixWriter renders every byte written through it as a numeral in a
// chosen base followed by a single space, for human-readable inspection
// of binary output.  Hexadecimal bytes are zero-padded to two digits and
// uppercase; the other bases are unpadded.
type RadixWriter struct {
	w     io.Writer
	radix Radix
}

func NewRadixWriter(w io.Writer, r Radix) *RadixWriter {
	return &RadixWriter{w: w, radix: r}
}

var _ io.Writer = &RadixWriter{}

func (rw *RadixWriter) Write(p []byte) (int, error) {
	for i, b := range p {
		var err error
		switch rw.radix {
		case Binary:
			_, err = fmt.Fprintf(rw.w, "%b ", b)
		case Decimal:
			_, err = fmt.Fprintf(rw.w, "%d ", b)
		case Octal:
			_, err = fmt.Fprintf(rw.w, "%o ", b)
		default:
			_, err = fmt.Fprintf(rw.w, "%02X ", b)
		}
		if err != nil {
			return i, err
		}
	}
	return len(p), nil
}
