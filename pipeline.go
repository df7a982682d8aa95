package serex

import (
	"errors"
	"io"

	"github.com/serexlab/serex/codec"
	"github.com/serexlab/serex/framing"
)

// A Config fully describes one pipeline run.  All fields are resolved
// before any I/O starts: an unknown format or an unsupported direction is
// reported as a configuration error without reading a single byte.
type Config struct {
	// Source is the byte stream to read messages from.
	Source io.Reader
	// Sink receives the transcoded, re-framed messages.
	Sink io.Writer
	// InputFraming tells how message boundaries are found in Source.
	InputFraming framing.Mode
	// OutputFraming tells how boundaries are re-imposed on Sink.
	OutputFraming framing.Mode
	// From and To are the source and target format names.
	From string
	To   string
	// Radix, when set, renders output payload bytes as space-separated
	// numerals instead of raw binary.
	Radix framing.Radix
}

// frameQueueCap bounds the hand-off channel between the reading and
// writing stages, so a fast source cannot outrun a slow sink without
// limit.
const frameQueueCap = 8

// frameItem crosses the goroutine boundary carrying either a frame or
// the reader's error, so the error kind survives the hand-off.
type frameItem struct {
	frame []byte
	err   error
}

// Run executes one transcode pipeline: frames are read from the source
// as they arrive, decoded from the source format, encoded into the
// target format and written out re-framed, flushing after every message.
//
// Reading happens in its own goroutine; decoding, encoding and writing
// happen on the calling goroutine, consuming frames strictly in arrival
// order.  The first error of any kind stops the run: frames after the
// failing one are never written.  A cleanly exhausted source is success,
// not an error.
func Run(cfg Config) error {
	decode, err := codec.Decoder(cfg.From)
	if err != nil {
		return err
	}
	encode, err := codec.Encoder(cfg.To)
	if err != nil {
		return err
	}

	reader := framing.NewReader(cfg.Source, cfg.InputFraming)
	writer := framing.NewWriter(cfg.Sink, cfg.OutputFraming)
	if cfg.Radix != 0 {
		writer.SetRadix(cfg.Radix)
	}

	frames := make(chan frameItem, frameQueueCap)
	done := make(chan struct{})
	defer close(done)
	go produceFrames(reader, frames, done)

	for item := range frames {
		if item.err != nil {
			return item.err
		}
		v, err := decode(item.frame)
		if err != nil {
			return err
		}
		encoded, err := encode(v)
		if err != nil {
			return err
		}
		if err := writer.WriteFrame(encoded); err != nil {
			return err
		}
	}
	return nil
}

// produceFrames reads frames until end-of-stream or the first error,
// which is forwarded in-band and terminates the stage.  The done channel
// lets an early-exiting consumer unblock a producer stuck on a full
// queue.
func produceFrames(reader *framing.Reader, frames chan<- frameItem, done <-chan struct{}) {
	defer close(frames)
	for {
		frame, err := reader.ReadFrame()
		if errors.Is(err, io.EOF) {
			return
		}
		select {
		case frames <- frameItem{frame: frame, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}
