package rename

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/xingbase/dsprep"
	"github.com/xingbase/dsprep/collision"
	"github.com/xingbase/dsprep/file"
)

type Options struct {
	Prefix string
	Start  int
	Pad    int
}

func (o Options) Validate() error {
	if o.Pad < 0 {
		return errors.Errorf("pad must be >= 0, got %d", o.Pad)
	}
	if strings.ContainsAny(o.Prefix, `/\`) {
		return errors.Errorf("prefix %q must not contain a path separator", o.Prefix)
	}
	return nil
}

// Name is "{prefix}{index zero-padded to pad}{ext}".
func (o Options) Name(index int, ext string) string {
	return fmt.Sprintf("%s%0*d%s", o.Prefix, o.Pad, index, ext)
}

type Mapping struct {
	From string
	To   string
}

func (m Mapping) OldName() string { return filepath.Base(m.From) }
func (m Mapping) NewName() string { return filepath.Base(m.To) }

// Plan numbers files in the given order starting at Start. Each file keeps
// its own extension.
func Plan(files []file.Source, opts Options) []Mapping {
	mappings := make([]Mapping, 0, len(files))
	for i, f := range files {
		dir := filepath.Dir(f.Path)
		mappings = append(mappings, Mapping{
			From: f.Path,
			To:   filepath.Join(dir, opts.Name(opts.Start+i, f.Ext)),
		})
	}
	return mappings
}

type Result struct {
	Renamed   int
	Skipped   int
	Unchanged int
	Failures  []dsprep.Failure
}

// Apply renames every mapping. Sources are parked under hidden names first,
// so a target held by another file of the same batch is free by the time it
// is reached and only files outside the batch go to the policy. A failure is
// logged and recorded and the remaining files are still renamed.
func Apply(fs afero.Fs, mappings []Mapping, policy collision.Policy, log zerolog.Logger) *Result {
	if policy == nil {
		policy = collision.SkipPolicy
	}

	result := &Result{}
	fail := func(m Mapping, err error) {
		log.Error().Err(err).Str("file", m.OldName()).Msg("error renaming")
		result.Failures = append(result.Failures, dsprep.Failure{Path: m.From, Op: "rename", Err: err})
	}

	parked := make([]string, len(mappings))
	for i, m := range mappings {
		if m.From == m.To {
			continue
		}
		tmp, err := parkName(fs, m.From)
		if err == nil {
			err = fs.Rename(m.From, tmp)
		}
		if err != nil {
			fail(m, err)
			continue
		}
		parked[i] = tmp
	}

	for i, m := range mappings {
		if m.From == m.To {
			result.Unchanged++
			continue
		}
		tmp := parked[i]
		if tmp == "" {
			continue
		}

		target, ok, err := collision.Resolve(fs, policy, m.From, m.To)
		if err == nil && !ok {
			log.Info().Str("file", m.OldName()).Msg("skipping")
			result.Skipped++
			if err := unpark(fs, tmp, m.From, log); err != nil {
				fail(m, err)
			}
			continue
		}
		if err == nil {
			if target != m.To {
				log.Info().Str("file", m.OldName()).Str("to", filepath.Base(target)).Msg("auto-renamed collision")
			}
			err = fs.Rename(tmp, target)
		}
		if err != nil {
			fail(m, err)
			if err := unpark(fs, tmp, m.From, log); err != nil {
				fail(m, err)
			}
			continue
		}

		log.Info().Str("from", m.OldName()).Str("to", filepath.Base(target)).Msg("renamed")
		result.Renamed++
	}

	return result
}

// parkName returns an unused hidden name next to path.
func parkName(fs afero.Fs, path string) (string, error) {
	dir, name := filepath.Split(path)
	for n := 0; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf(".%s.renaming-%d", name, n))
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", errors.Wrapf(err, "stat %s", candidate)
		}
		if !exists {
			return candidate, nil
		}
	}
}

// unpark puts a file that was not renamed back under its old name. When an
// earlier rename of the batch took that name, the file lands next to it.
func unpark(fs afero.Fs, tmp, orig string, log zerolog.Logger) error {
	dst := orig
	exists, err := afero.Exists(fs, orig)
	if err != nil {
		return errors.Wrapf(err, "stat %s", orig)
	}
	if exists {
		if dst, err = collision.FreeName(fs, orig); err != nil {
			return err
		}
		log.Warn().Str("file", filepath.Base(orig)).Str("to", filepath.Base(dst)).Msg("old name taken, kept under a free name")
	}
	return errors.Wrapf(fs.Rename(tmp, dst), "restore %s", orig)
}
