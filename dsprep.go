package dsprep

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const TimeFormat = "2006-01-02 15:04:05"

// Failure is one per-file error collected during a run.
type Failure struct {
	Path string
	Op   string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Op, f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

func NewLogger(w io.Writer, level zerolog.Level, color bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: TimeFormat,
		NoColor:    !color,
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}

	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "log level %q", s)
	}

	return level, nil
}
