// Package framing splits a continuous byte stream into discrete message
// frames on the way in, and re-imposes frame boundaries on the way out.
//
// Three framing modes are supported:
//
//   - None: the whole stream is a single frame, terminated by EOF
//   - Sized: each frame is prefixed by its length as an unsigned 32-bit
//     big-endian integer
//   - Delimited: each frame is terminated by a single marker byte, which
//     is stripped on input and appended on output
//
// Delimited framing has a known limitation: a payload that itself contains
// the marker byte is split at the marker.  There is no escaping mechanism,
// so the marker must be chosen so that it cannot occur inside a message
// (a newline with a text format, for example).
package framing

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	ErrTruncatedHeader = errors.New("framing: truncated size header")
	ErrTruncatedBody   = errors.New("framing: frame shorter than declared size")
	ErrFrameTooLarge   = errors.New("framing: frame exceeds 4GiB size limit")
)

type kind uint8

const (
	noneKind kind = iota
	sizedKind
	delimitedKind
)

// A Mode selects how frame boundaries are found in a byte stream.  Use the
// None and Sized values, or the Delimited constructor.
type Mode struct {
	kind  kind
	delim byte
}

var (
	// None treats the entire stream as one frame.
	None = Mode{kind: noneKind}
	// Sized prefixes each frame with a 4-byte big-endian length.
	Sized = Mode{kind: sizedKind}
)

// Delimited terminates each frame with the marker byte d.
func Delimited(d byte) Mode {
	return Mode{kind: delimitedKind, delim: d}
}

// Delimiter returns the marker byte and whether the mode is delimited.
func (m Mode) Delimiter() (byte, bool) {
	return m.delim, m.kind == delimitedKind
}

func (m Mode) String() string {
	switch m.kind {
	case sizedKind:
		return "sized"
	case delimitedKind:
		return fmt.Sprintf("delimited(0x%02X)", m.delim)
	}
	return "none"
}

// A Reader produces one raw message frame at a time from a byte source.
// ReadFrame returns io.EOF when the source is cleanly exhausted; any other
// error is fatal.  Frames can only be read from the start of the stream,
// in order.
type Reader struct {
	mode Mode
	buf  *bufio.Reader
	done bool
}

func NewReader(r io.Reader, mode Mode) *Reader {
	return &Reader{mode: mode, buf: bufio.NewReader(r)}
}

// ReadFrame returns the next frame's payload with all framing bytes
// removed.  A zero-length frame is valid in sized mode and is returned as
// an empty, non-nil slice.
func (r *Reader) ReadFrame() ([]byte, error) {
	switch r.mode.kind {
	case sizedKind:
		return r.readSized()
	case delimitedKind:
		return r.readDelimited()
	default:
		return r.readAll()
	}
}

// readAll consumes the source to exhaustion exactly once.  An empty source
// is end-of-stream, not an empty frame.
func (r *Reader) readAll() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}
	r.done = true
	frame, err := io.ReadAll(r.buf)
	if err != nil {
		return nil, err
	}
	if len(frame) == 0 {
		return nil, io.EOF
	}
	return frame, nil
}

func (r *Reader) readSized() ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r.buf, header[:]); err != nil {
		if err == io.EOF {
			// No bytes at all: clean end of stream.
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncatedHeader
		}
		return nil, err
	}
	size := binary.BigEndian.Uint32(header[:])
	frame := make([]byte, size)
	if _, err := io.ReadFull(r.buf, frame); err != nil {
		if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncatedBody
		}
		return nil, err
	}
	return frame, nil
}

func (r *Reader) readDelimited() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}
	frame, err := r.buf.ReadBytes(r.mode.delim)
	if err != nil {
		if err == io.EOF {
			if len(frame) == 0 {
				return nil, io.EOF
			}
			// The stream ended mid-message: the collected bytes are
			// still a valid final frame.
			r.done = true
			return frame, nil
		}
		return nil, err
	}
	return frame[:len(frame)-1], nil
}

// A Writer writes correctly framed frames to a byte sink, flushing after
// each frame so that downstream consumers see complete messages promptly.
//
// The sized header and the payload are written through a payload writer
// which can be wrapped (see SetRadix) to render bytes as human-readable
// numerals.  The delimiter marker byte is always written raw, so that an
// interactive session with a newline delimiter gets its prompt on a fresh
// line even when a radix display is active.
type Writer struct {
	mode    Mode
	sink    *bufio.Writer
	payload io.Writer
}

func NewWriter(w io.Writer, mode Mode) *Writer {
	sink := bufio.NewWriter(w)
	return &Writer{mode: mode, sink: sink, payload: sink}
}

// SetRadix renders all payload bytes as space-separated numerals in the
// given radix instead of raw binary.
func (w *Writer) SetRadix(r Radix) {
	w.payload = NewRadixWriter(w.sink, r)
}

// WriteFrame writes one framed payload and flushes the sink.
func (w *Writer) WriteFrame(frame []byte) error {
	switch w.mode.kind {
	case sizedKind:
		if uint64(len(frame)) > math.MaxUint32 {
			return ErrFrameTooLarge
		}
		var header [4]byte
		binary.BigEndian.PutUint32(header[:], uint32(len(frame)))
		if _, err := w.payload.Write(header[:]); err != nil {
			return err
		}
		if _, err := w.payload.Write(frame); err != nil {
			return err
		}
	case delimitedKind:
		if _, err := w.payload.Write(frame); err != nil {
			return err
		}
		if err := w.sink.WriteByte(w.mode.delim); err != nil {
			return err
		}
	default:
		if _, err := w.payload.Write(frame); err != nil {
			return err
		}
	}
	return w.sink.Flush()
}

// Flush flushes any buffered output to the sink.
func (w *Writer) Flush() error {
	return w.sink.Flush()
}
