package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/xingbase/dsprep"
	"github.com/xingbase/dsprep/collision"
	"github.com/xingbase/dsprep/config"
	"github.com/xingbase/dsprep/file"
	"github.com/xingbase/dsprep/ui"
)

// env is what every command needs before touching the dataset.
type env struct {
	fs     afero.Fs
	cfg    *config.Config
	log    zerolog.Logger
	filter file.Filter
}

// newFs is swapped out in tests.
var newFs = afero.NewOsFs

func setup(ext []string) (*env, error) {
	fs := newFs()

	cfg := &config.Config{}
	if options.Config != "" {
		loaded, err := config.Load(fs, options.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	color := !options.NoColor && terminal(os.Stdout)
	if !color {
		ui.Plain()
	}

	level := zerolog.DebugLevel
	if !options.Verbose {
		name := cfg.LogLevel
		if name == "" {
			name = config.DefaultLogLevel
		}
		var err error
		if level, err = dsprep.ParseLevel(name); err != nil {
			return nil, err
		}
	}

	exts := file.DefaultExtensions
	switch {
	case len(ext) > 0:
		exts = ext
	case len(cfg.Extensions) > 0:
		exts = cfg.Extensions
	}

	return &env{
		fs:     fs,
		cfg:    cfg,
		log:    dsprep.NewLogger(os.Stdout, level, color),
		filter: file.NewFilter(exts...),
	}, nil
}

func terminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// prompt asks on the terminal with a form, otherwise line by line on stdin.
func prompt() collision.Prompt {
	if terminal(os.Stdin) && terminal(os.Stdout) {
		return collision.FormPrompt(os.Getenv("ACCESSIBLE") != "")
	}
	return collision.LinePrompt(os.Stdin, os.Stdout)
}

// progress is where progress bars go, nil when they would only add noise.
func (e *env) progress() io.Writer {
	if options.Verbose || !terminal(os.Stderr) {
		return nil
	}
	return os.Stderr
}

func printFailures(failures []dsprep.Failure) {
	for _, f := range failures {
		fmt.Println(ui.Red.Render("  [ERROR]") + " " + f.Error())
	}
}
