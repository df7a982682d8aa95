package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/serexlab/serex"
	"github.com/serexlab/serex/codec"
	"github.com/serexlab/serex/framing"
)

// Exit codes by error kind.
const (
	exitOK        = 0
	exitTranscode = 1 // decode or encode failure
	exitFraming   = 2 // truncated or oversized frame
	exitIO        = 3
	exitConfig    = 4 // bad flags, formats or delimiter strings
)

type options struct {
	from            string
	to              string
	output          string
	radix           string
	delimited       string
	delimitedInput  string
	delimitedOutput string
	sized           bool
	sizedInput      bool
	sizedOutput     bool
	verbose         bool
	files           []string
}

// usageError marks configuration mistakes detected before any I/O.
type usageError string

func (e usageError) Error() string { return string(e) }

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (see error handling at
	// the bottom of main).
	signal.Ignore(syscall.SIGPIPE)

	var opts options
	pflag.StringVarP(&opts.from, "from", "f", "", "input format (default: file extension, else json)")
	pflag.StringVarP(&opts.to, "to", "t", "", "output format (default: output file extension, else msgpack)")
	pflag.StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")
	pflag.StringVarP(&opts.radix, "radix", "r", "", "write output bytes as numerals in this radix (bin, dec, hex, oct)")
	pflag.StringVarP(&opts.delimited, "delimited", "d", "", "use this delimiter byte for both input and output framing")
	pflag.StringVar(&opts.delimitedInput, "delimited-input", "", "each input message ends with this delimiter byte")
	pflag.StringVar(&opts.delimitedOutput, "delimited-output", "", "append this delimiter byte to each output message")
	pflag.BoolVarP(&opts.sized, "sized", "s", false, "use 4-byte big-endian size prefixes for both input and output framing")
	pflag.BoolVar(&opts.sizedInput, "sized-input", false, "each input message starts with a 4-byte big-endian size prefix")
	pflag.BoolVar(&opts.sizedOutput, "sized-output", false, "prepend a 4-byte big-endian size prefix to each output message")
	pflag.BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline details to stderr")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: serex [flags] [file ...]\n\nTranscode serialization formats in a pipe-friendly manner.\nSupported formats: %s\n\n", strings.Join(codec.Names(), ", "))
		pflag.PrintDefaults()
	}
	pflag.Parse()
	opts.files = pflag.Args()

	logger := newLogger(opts.verbose)

	err := run(opts, logger)
	if err == nil {
		return
	}
	if errors.Is(err, syscall.EPIPE) {
		// stdout is a pipe and something closed it (e.g. 'head' or
		// 'less').  In this case we don't want to complain.
		return
	}
	logger.Error().Msg(err.Error())
	os.Exit(exitCode(err))
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:     colorable.NewColorableStderr(),
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func run(opts options, logger zerolog.Logger) error {
	inputFraming, err := resolveFraming(
		firstOf(opts.delimitedInput, opts.delimited),
		opts.sizedInput || opts.sized,
		"input",
	)
	if err != nil {
		return err
	}
	outputFraming, err := resolveFraming(
		firstOf(opts.delimitedOutput, opts.delimited),
		opts.sizedOutput || opts.sized,
		"output",
	)
	if err != nil {
		return err
	}

	var radix framing.Radix
	if opts.radix != "" {
		radix, err = framing.ParseRadix(opts.radix)
		if err != nil {
			return usageError(err.Error())
		}
	}

	var sink io.Writer = os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		sink = f
	}
	to := opts.to
	if to == "" {
		to = formatForPath(opts.output, "msgpack")
	}

	if len(opts.files) == 0 {
		from := opts.from
		if from == "" {
			from = "json"
		}
		return runOne(os.Stdin, sink, inputFraming, outputFraming, from, to, radix, logger)
	}

	// Each file is transcoded in turn to the shared sink; the input
	// format can vary per file when inferred from extensions.
	for _, name := range opts.files {
		from := opts.from
		if from == "" {
			from = formatForPath(name, "json")
		}
		source, err := os.Open(name)
		if err != nil {
			return err
		}
		err = runOne(source, sink, inputFraming, outputFraming, from, to, radix, logger)
		source.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func runOne(source io.Reader, sink io.Writer, inputFraming, outputFraming framing.Mode, from, to string, radix framing.Radix, logger zerolog.Logger) error {
	logger.Debug().
		Str("from", from).
		Str("to", to).
		Stringer("input_framing", inputFraming).
		Stringer("output_framing", outputFraming).
		Stringer("radix", radix).
		Msg("starting pipeline")
	return serex.Run(serex.Config{
		Source:        source,
		Sink:          sink,
		InputFraming:  inputFraming,
		OutputFraming: outputFraming,
		From:          from,
		To:            to,
		Radix:         radix,
	})
}

func resolveFraming(delimiter string, sized bool, side string) (framing.Mode, error) {
	if delimiter != "" && sized {
		return framing.None, usageError(fmt.Sprintf("%s framing cannot be both sized and delimited", side))
	}
	if delimiter != "" {
		d, err := framing.ParseDelimiter(delimiter)
		if err != nil {
			return framing.None, err
		}
		return framing.Delimited(d), nil
	}
	if sized {
		return framing.Sized, nil
	}
	return framing.None, nil
}

// formatForPath infers a format name from a file extension, falling back
// when there is no extension or it names no known format.
func formatForPath(path, fallback string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext != "" {
		if c, ok := codec.Lookup(ext); ok {
			return c.Name
		}
	}
	return fallback
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func exitCode(err error) int {
	var decodeErr *codec.DecodeError
	var encodeErr *codec.EncodeError
	var unknownErr *codec.UnknownFormatError
	var capErr *codec.CapabilityError
	var delimErr *framing.DelimiterError
	var usageErr usageError
	switch {
	case errors.As(err, &decodeErr), errors.As(err, &encodeErr):
		return exitTranscode
	case errors.Is(err, framing.ErrTruncatedHeader),
		errors.Is(err, framing.ErrTruncatedBody),
		errors.Is(err, framing.ErrFrameTooLarge):
		return exitFraming
	case errors.As(err, &unknownErr),
		errors.As(err, &capErr),
		errors.As(err, &delimErr),
		errors.As(err, &usageErr):
		return exitConfig
	}
	return exitIO
}
