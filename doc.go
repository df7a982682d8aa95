package serex

// Package serex implements a pipe-friendly streaming transcoder between
// serialization formats.
//
// The package is organized into several sub-packages:
//
// - value: the format-neutral value model all codecs share
// - codec: per-format decode/encode routines and the format registry
// - framing: message framing (none, size-prefixed, delimiter-based)
//
// These are combined by the Run function into a transcode pipeline:
//
//	read frame -> decode -> encode -> write frame
//
// Frames are processed one at a time as they arrive, so a stream of
// framed messages is transcoded with memory usage bounded by the largest
// single message, and output for each message is flushed as soon as it is
// ready.  Reading overlaps with transcoding: a producer goroutine frames
// the input while the consumer decodes, encodes and writes, connected by
// a small bounded queue.
//
// Converting every format into the shared value model means each format
// needs one decoder and one encoder rather than a converter per format
// pair.  Format support is asymmetric where the format demands it: CSV,
// for example, can be decoded but not encoded.
//
// The CLI utility is in the directory cmd/serex. You can install it with:
//
//	go install github.com/serexlab/serex/cmd/serex
