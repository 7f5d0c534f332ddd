package main

import (
	"fmt"

	"github.com/xingbase/dsprep/collision"
	"github.com/xingbase/dsprep/config"
	"github.com/xingbase/dsprep/file"
	"github.com/xingbase/dsprep/split"
	"github.com/xingbase/dsprep/ui"
)

func init() {
	parser.AddCommand("split",
		"Split a folder into train/val/test",
		"The split command shuffles the files of a folder and copies or moves them into train/, val/ and test/ under the destination.",
		&splitCommand{})
}

type splitCommand struct {
	Src         string   `short:"s" long:"src" description:"Source directory" required:"true"`
	Dest        *string  `short:"d" long:"dest" description:"Destination root (default: .)"`
	Train       *float64 `long:"train" description:"Training ratio (default: 0.7)"`
	Val         *float64 `long:"val" description:"Validation ratio (default: 0.2)"`
	Test        *float64 `long:"test" description:"Test ratio (default: 0.1)"`
	Seed        *int64   `long:"seed" description:"Shuffle seed for a reproducible split (default: random)"`
	Move        bool     `long:"move" description:"Move files instead of copying"`
	Preview     bool     `long:"preview" description:"Only print split counts"`
	Ext         []string `short:"e" long:"ext" description:"Extensions to include, repeat or comma-separate"`
	OnCollision *string  `long:"on-collision" description:"overwrite, skip, rename or prompt (default: overwrite)"`
}

func (c *splitCommand) Execute(args []string) error {
	env, err := setup(c.Ext)
	if err != nil {
		return err
	}
	cfg := env.cfg.Split

	ratios := split.Ratios{
		Train: config.Pick(config.DefaultTrain, c.Train, cfg.Train),
		Val:   config.Pick(config.DefaultVal, c.Val, cfg.Val),
		Test:  config.Pick(config.DefaultTest, c.Test, cfg.Test),
	}
	if err := ratios.Validate(); err != nil {
		return err
	}

	policy, err := collision.ParsePolicy(config.Pick(config.DefaultSplitOnCollision, c.OnCollision, cfg.OnCollision), prompt())
	if err != nil {
		return err
	}

	mode := split.Copy
	if c.Move || config.Pick(false, cfg.Move) {
		mode = split.Move
	}

	files, err := file.List(env.fs, c.Src, env.filter)
	if err != nil {
		return err
	}
	file.SortByPath(files)
	if len(files) == 0 {
		env.log.Info().Str("dir", c.Src).Str("ext", env.filter.String()).Msg("No files found in source directory.")
	}

	seed := config.PickPtr(c.Seed, cfg.Seed)
	assignment, err := split.Plan(files, ratios, seed)
	if err != nil {
		return err
	}
	if seed != nil {
		env.log.Debug().Int64("seed", *seed).Msg("shuffled")
	}

	res := split.Materialize(env.fs, assignment, split.Options{
		Dest:     config.Pick(config.DefaultDest, c.Dest, cfg.Dest),
		Mode:     mode,
		Preview:  c.Preview || len(files) == 0,
		Policy:   policy,
		Progress: env.progress(),
	}, env.log)

	fmt.Println(ui.Cyan.Render("Split counts:"))
	for _, s := range split.Splits {
		fmt.Println("  " + ui.Label(string(s), fmt.Sprintf("%d files", res.Planned[s])))
	}
	if c.Preview || len(files) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println(ui.Green.Render("Done.") + " " +
		ui.Label(mode.Past(), res.Total(res.Done)) + "  " +
		ui.Label("Skipped", res.Total(res.Skipped)) + "  " +
		ui.Label("Errors", len(res.Failures)))
	printFailures(res.Failures)

	return nil
}
