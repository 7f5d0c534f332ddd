package split

import (
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"

	"github.com/xingbase/dsprep"
	"github.com/xingbase/dsprep/collision"
	"github.com/xingbase/dsprep/file"
)

type Mode int

const (
	Copy Mode = iota
	Move
)

func (m Mode) String() string {
	if m == Move {
		return "move"
	}
	return "copy"
}

// Past is the past-tense verb used in summaries.
func (m Mode) Past() string {
	if m == Move {
		return "Moved"
	}
	return "Copied"
}

type Options struct {
	Dest    string
	Mode    Mode
	Preview bool
	Policy  collision.Policy
	// Progress receives a progress bar when set.
	Progress io.Writer
}

// Result accumulates the outcome of one Materialize call.
type Result struct {
	Planned  map[Split]int
	Done     map[Split]int
	Skipped  map[Split]int
	Failures []dsprep.Failure
}

func newResult(a Assignment) *Result {
	r := &Result{
		Planned: a.Counts(),
		Done:    make(map[Split]int, len(Splits)),
		Skipped: make(map[Split]int, len(Splits)),
	}
	for _, s := range Splits {
		r.Done[s] = 0
		r.Skipped[s] = 0
	}
	return r
}

func (r *Result) Total(m map[Split]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// Materialize copies or moves every assigned file into Dest/<split>/,
// keeping its name. A failing file is recorded and the rest still run.
// In preview mode nothing is touched and only Planned is filled.
func Materialize(fs afero.Fs, a Assignment, opts Options, log zerolog.Logger) *Result {
	result := newResult(a)
	if opts.Preview {
		return result
	}

	policy := opts.Policy
	if policy == nil {
		policy = collision.OverwritePolicy
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(a),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription(opts.Mode.String()),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, e := range a {
		if err := materialize(fs, e, opts.Dest, opts.Mode, policy, result, log); err != nil {
			log.Error().Err(err).Str("file", e.Source.Name).Str("split", string(e.Split)).Msg("failed")
			result.Failures = append(result.Failures, dsprep.Failure{
				Path: e.Source.Path,
				Op:   opts.Mode.String() + " to " + string(e.Split),
				Err:  err,
			})
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	return result
}

func materialize(fs afero.Fs, e Entry, dest string, mode Mode, policy collision.Policy, result *Result, log zerolog.Logger) error {
	dir := filepath.Join(dest, string(e.Split))
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	target, ok, err := collision.Resolve(fs, policy, e.Source.Path, filepath.Join(dir, e.Source.Name))
	if err != nil {
		return err
	}
	if !ok {
		log.Info().Str("file", e.Source.Name).Str("split", string(e.Split)).Msg("skipped, target exists")
		result.Skipped[e.Split]++
		return nil
	}

	switch mode {
	case Move:
		err = move(fs, e.Source.Path, target)
	default:
		err = file.Copy(fs, e.Source.Path, target)
	}
	if err != nil {
		return err
	}

	log.Debug().Str("from", e.Source.Path).Str("to", target).Msg(mode.Past())
	result.Done[e.Split]++

	return nil
}

func move(fs afero.Fs, src, dst string) error {
	err := fs.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	if err := file.Copy(fs, src, dst); err != nil {
		return err
	}
	return fs.Remove(src)
}
