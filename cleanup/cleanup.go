// Package cleanup finds byte-identical duplicates and images that fail to
// decode, and removes them.
package cleanup

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"

	"github.com/xingbase/dsprep"
	"github.com/xingbase/dsprep/file"
)

type Options struct {
	DryRun    bool
	Recursive bool
	// Images selects the files that are decoded to check for corruption.
	// Every file is hashed regardless.
	Images   file.Filter
	Progress io.Writer
}

// Duplicate is a file with the same SHA-256 as an earlier (by path) Original.
type Duplicate struct {
	Path     string
	Original string
	Size     int64
}

type Corrupt struct {
	Path string
	Size int64
	Err  error
}

type Report struct {
	DryRun     bool
	Scanned    int
	Duplicates []Duplicate
	Corrupt    []Corrupt
	Removed    []string
	Reclaimed  int64
	Failures   []dsprep.Failure
}

func (r *Report) Clean() bool {
	return len(r.Duplicates) == 0 && len(r.Corrupt) == 0
}

// Run scans dir and, unless DryRun, deletes every duplicate and every
// corrupt image. A path that is both is deleted once.
func Run(fs afero.Fs, dir string, opts Options, log zerolog.Logger) (*Report, error) {
	report, err := Scan(fs, dir, opts, log)
	if err != nil {
		return nil, err
	}
	if !opts.DryRun {
		report.apply(fs, log)
	}
	return report, nil
}

// Scan classifies files without changing anything.
func Scan(fs afero.Fs, dir string, opts Options, log zerolog.Logger) (*Report, error) {
	var (
		files []file.Source
		err   error
	)
	if opts.Recursive {
		files, err = file.Walk(fs, dir, nil)
	} else {
		files, err = file.List(fs, dir, nil)
	}
	if err != nil {
		return nil, err
	}
	file.SortByPath(files)

	report := &Report{DryRun: opts.DryRun, Scanned: len(files)}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("scanning"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	seen := make(map[string]string)
	for _, f := range files {
		report.scan(fs, f, seen, opts.Images, log)
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	return report, nil
}

func (r *Report) scan(fs afero.Fs, f file.Source, seen map[string]string, images file.Filter, log zerolog.Logger) {
	sum, err := file.Hash(fs, f.Path)
	if err != nil {
		log.Error().Err(err).Str("file", f.Path).Msg("hash failed")
		r.Failures = append(r.Failures, dsprep.Failure{Path: f.Path, Op: "hash", Err: err})
		return
	}

	if original, ok := seen[sum]; ok {
		log.Debug().Str("file", f.Path).Str("original", original).Msg("duplicate")
		r.Duplicates = append(r.Duplicates, Duplicate{Path: f.Path, Original: original, Size: f.Size})
	} else {
		seen[sum] = f.Path
	}

	if !images.Match(f.Name) {
		return
	}

	img, err := file.Verify(fs, f.Path)
	switch {
	case file.IsCorrupt(err):
		log.Debug().Err(err).Str("file", f.Path).Msg("corrupt")
		r.Corrupt = append(r.Corrupt, Corrupt{Path: f.Path, Size: f.Size, Err: err})
	case err != nil:
		log.Error().Err(err).Str("file", f.Path).Msg("open failed")
		r.Failures = append(r.Failures, dsprep.Failure{Path: f.Path, Op: "decode", Err: err})
	default:
		log.Debug().Str("file", f.Path).Str("format", img.Format).Int("width", img.Width).Int("height", img.Height).Msg("ok")
	}
}

func (r *Report) apply(fs afero.Fs, log zerolog.Logger) {
	removed := make(map[string]bool)

	remove := func(path string, size int64, reason string) {
		if removed[path] {
			return
		}
		if err := fs.Remove(path); err != nil {
			log.Error().Err(err).Str("file", path).Msg("delete failed")
			r.Failures = append(r.Failures, dsprep.Failure{Path: path, Op: "delete", Err: err})
			return
		}
		removed[path] = true
		r.Removed = append(r.Removed, path)
		r.Reclaimed += size
		log.Info().Str("file", path).Str("reason", reason).Msg("removed")
	}

	for _, d := range r.Duplicates {
		remove(d.Path, d.Size, "duplicate")
	}
	for _, c := range r.Corrupt {
		remove(c.Path, c.Size, "corrupt")
	}
}
