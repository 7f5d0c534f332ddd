package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/xingbase/dsprep/balance"
	"github.com/xingbase/dsprep/config"
	"github.com/xingbase/dsprep/ui"
)

var errImbalanced = errors.New("class imbalance detected")

func init() {
	parser.AddCommand("balance",
		"Check class balance",
		"The balance command counts the images in each class subdirectory and flags underrepresented classes. It exits 1 when any class is flagged.",
		&balanceCommand{})
}

type balanceCommand struct {
	Dir            string   `short:"d" long:"dir" description:"Dataset root, one subdirectory per class" default:"."`
	RatioThreshold *float64 `long:"ratio-threshold" description:"Flag a class when count/max is below this"`
	DiffThreshold  *int     `long:"diff-threshold" description:"Flag a class when max-count is above this"`
	Ext            []string `short:"e" long:"ext" description:"Extensions to count, repeat or comma-separate"`
}

func (c *balanceCommand) Execute(args []string) error {
	env, err := setup(c.Ext)
	if err != nil {
		return err
	}
	cfg := env.cfg.Balance

	th := balance.Thresholds{
		Ratio: config.PickPtr(c.RatioThreshold, cfg.RatioThreshold),
		Diff:  config.PickPtr(c.DiffThreshold, cfg.DiffThreshold),
	}
	if th.Ratio != nil && (*th.Ratio < 0 || *th.Ratio > 1) {
		return errors.Errorf("ratio threshold must be between 0 and 1, got %v", *th.Ratio)
	}
	if th.Diff != nil && *th.Diff < 0 {
		return errors.Errorf("diff threshold must be >= 0, got %d", *th.Diff)
	}
	if th.Ratio == nil && th.Diff == nil {
		env.log.Warn().Msg("no thresholds given, nothing will be flagged")
	}

	report, err := balance.Check(env.fs, c.Dir, env.filter, th)
	if err != nil {
		return err
	}

	if err := report.Render(os.Stdout); err != nil {
		return err
	}
	fmt.Println()

	if report.Imbalanced() {
		fmt.Println(ui.Red.Render("WARNING:") + " Class imbalance detected.")
		return errImbalanced
	}

	fmt.Println(ui.Green.Render("All classes are balanced within thresholds."))
	return nil
}
