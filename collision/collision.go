package collision

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

type Action int

const (
	Overwrite Action = iota
	Skip
	Rename
)

func (a Action) String() string {
	switch a {
	case Overwrite:
		return "overwrite"
	case Skip:
		return "skip"
	case Rename:
		return "rename"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "o", "overwrite":
		return Overwrite, nil
	case "s", "skip":
		return Skip, nil
	case "r", "rename":
		return Rename, nil
	}
	return 0, errors.Errorf("unknown collision action %q", s)
}

// Policy decides what happens when dst already exists.
type Policy interface {
	Decide(src, dst string) (Action, error)
}

// Fixed applies the same action to every collision.
type Fixed Action

func (f Fixed) Decide(src, dst string) (Action, error) {
	return Action(f), nil
}

var (
	OverwritePolicy Policy = Fixed(Overwrite)
	SkipPolicy      Policy = Fixed(Skip)
	RenamePolicy    Policy = Fixed(Rename)
)

// Prompt asks a callback, usually a person, for every collision.
type Prompt func(src, dst string) (Action, error)

func (p Prompt) Decide(src, dst string) (Action, error) {
	return p(src, dst)
}

// ParsePolicy maps a configured policy name to a Policy. "prompt" uses
// the given prompt.
func ParsePolicy(name string, prompt Prompt) (Policy, error) {
	if strings.EqualFold(strings.TrimSpace(name), "prompt") {
		if prompt == nil {
			return nil, errors.New("prompt policy needs an interactive prompt")
		}
		return prompt, nil
	}

	a, err := ParseAction(name)
	if err != nil {
		return nil, err
	}
	return Fixed(a), nil
}

func ValidName(name string) bool {
	if strings.EqualFold(strings.TrimSpace(name), "prompt") {
		return true
	}
	_, err := ParseAction(name)
	return err == nil
}

// Resolve returns the path src should be written to. ok is false when the
// policy chose to skip. With Overwrite the existing dst is returned as is.
func Resolve(fs afero.Fs, p Policy, src, dst string) (target string, ok bool, err error) {
	exists, err := afero.Exists(fs, dst)
	if err != nil {
		return "", false, errors.Wrapf(err, "stat %s", dst)
	}
	if !exists {
		return dst, true, nil
	}

	action, err := p.Decide(src, dst)
	if err != nil {
		return "", false, err
	}

	switch action {
	case Overwrite:
		return dst, true, nil
	case Skip:
		return "", false, nil
	case Rename:
		free, err := FreeName(fs, dst)
		if err != nil {
			return "", false, err
		}
		return free, true, nil
	}

	return "", false, errors.Errorf("unknown collision action %v", action)
}

// FreeName returns the first "{base}_{n}{ext}" next to path, n from 1,
// that does not exist.
func FreeName(fs afero.Fs, path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", errors.Wrapf(err, "stat %s", candidate)
		}
		if !exists {
			return candidate, nil
		}
	}
}
