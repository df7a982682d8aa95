package framing

import (
	"errors"
	"fmt"
	"strconv"
)

// A DelimiterError reports an invalid delimiter configuration string.  It
// is detected before any I/O begins.
type DelimiterError struct {
	Input string
	Err   error
}

func (e *DelimiterError) Error() string {
	return fmt.Sprintf("invalid delimiter %q: %s", e.Input, e.Err)
}

func (e *DelimiterError) Unwrap() error {
	return e.Err
}

// ParseDelimiter converts a numeral string to a delimiter byte.  The
// string may carry a radix suffix: 'b' for binary, 'd' for decimal, 'h'
// for hexadecimal or 'o' for octal, case-insensitive.  Without a suffix
// the string is read as hexadecimal.  So "1010b", "10d", "0Ah", "012o"
// and "0A" all denote the ASCII newline character.
//
// The suffix always wins over the digits: "0b" is zero in binary, not
// 0x0B.
func ParseDelimiter(s string) (byte, error) {
	if s == "" {
		return 0, &DelimiterError{Input: s, Err: fmt.Errorf("empty string")}
	}
	body, base := s, 16
	switch s[len(s)-1] {
	case 'b', 'B':
		body, base = s[:len(s)-1], 2
	case 'd', 'D':
		body, base = s[:len(s)-1], 10
	case 'h', 'H':
		body, base = s[:len(s)-1], 16
	case 'o', 'O':
		body, base = s[:len(s)-1], 8
	}
	n, err := strconv.ParseUint(body, base, 8)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, &DelimiterError{Input: s, Err: fmt.Errorf("value does not fit in a single byte")}
		}
		return 0, &DelimiterError{Input: s, Err: fmt.Errorf("not a base-%d numeral", base)}
	}
	return byte(n), nil
}
