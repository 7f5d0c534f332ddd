package main

import (
	"fmt"

	"github.com/xingbase/dsprep/collision"
	"github.com/xingbase/dsprep/config"
	"github.com/xingbase/dsprep/file"
	"github.com/xingbase/dsprep/rename"
	"github.com/xingbase/dsprep/ui"
)

func init() {
	parser.AddCommand("rename",
		"Rename images with sequential numbers",
		"The rename command renames images to {prefix}{index}.{ext} in name order.",
		&renameCommand{})
}

type renameCommand struct {
	Dir         string   `short:"d" long:"dir" description:"Target directory" default:"."`
	Prefix      *string  `short:"p" long:"prefix" description:"Filename prefix (default: img_)"`
	Start       *int     `short:"s" long:"start" description:"Starting index (default: 1)"`
	Pad         *int     `short:"n" long:"pad" description:"Zero-padding width (default: 3)"`
	Ext         []string `short:"e" long:"ext" description:"Extensions to include, repeat or comma-separate"`
	Preview     bool     `long:"preview" description:"Show the first mapping without renaming"`
	OnCollision *string  `long:"on-collision" description:"overwrite, skip, rename or prompt (default: prompt)"`
}

func (c *renameCommand) Execute(args []string) error {
	env, err := setup(c.Ext)
	if err != nil {
		return err
	}
	cfg := env.cfg.Rename

	opts := c.options(cfg)
	if err := opts.Validate(); err != nil {
		return err
	}

	policy, err := collision.ParsePolicy(config.Pick(config.DefaultRenameOnCollision, c.OnCollision, cfg.OnCollision), prompt())
	if err != nil {
		return err
	}

	files, err := file.List(env.fs, c.Dir, env.filter)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		env.log.Info().Str("dir", c.Dir).Str("ext", env.filter.String()).Msg("No image files found.")
		return nil
	}
	file.SortByPath(files)

	mappings := rename.Plan(files, opts)

	if c.Preview {
		first := mappings[0]
		fmt.Println(ui.Cyan.Render("Preview:") + " " + ui.White.Render(first.OldName()) + " → " + ui.Green.Render(first.NewName()))
		if len(mappings) > 1 {
			fmt.Println(ui.Dim.Render(fmt.Sprintf("  and %d more", len(mappings)-1)))
		}
		return nil
	}

	res := rename.Apply(env.fs, mappings, policy, env.log)

	fmt.Println()
	fmt.Println(ui.Green.Render("Done.") + " " +
		ui.Label("Renamed", res.Renamed) + "  " +
		ui.Label("Skipped", res.Skipped) + "  " +
		ui.Label("Unchanged", res.Unchanged) + "  " +
		ui.Label("Errors", len(res.Failures)))
	printFailures(res.Failures)

	return nil
}

// options layers the flags over the config file over the defaults.
func (c *renameCommand) options(cfg config.RenameConfig) rename.Options {
	return rename.Options{
		Prefix: config.Pick(config.DefaultPrefix, c.Prefix, cfg.Prefix),
		Start:  config.Pick(config.DefaultStart, c.Start, cfg.Start),
		Pad:    config.Pick(config.DefaultPad, c.Pad, cfg.Pad),
	}
}
