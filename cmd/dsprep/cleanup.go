package main

import (
	"fmt"

	"github.com/xingbase/dsprep/cleanup"
	"github.com/xingbase/dsprep/config"
	"github.com/xingbase/dsprep/file"
	"github.com/xingbase/dsprep/ui"
)

func init() {
	parser.AddCommand("cleanup",
		"Remove duplicate and corrupt images",
		"The cleanup command deletes byte-identical duplicates (keeping the first by name) and images that fail to decode.",
		&cleanupCommand{})
}

type cleanupCommand struct {
	Dir       string   `short:"d" long:"dir" description:"Target directory" default:"."`
	DryRun    bool     `long:"dry-run" description:"Show what would be deleted without deleting"`
	Recursive bool     `short:"r" long:"recursive" description:"Include subdirectories"`
	Ext       []string `short:"e" long:"ext" description:"Extensions checked for corruption, repeat or comma-separate"`
}

func (c *cleanupCommand) Execute(args []string) error {
	env, err := setup(c.Ext)
	if err != nil {
		return err
	}

	report, err := cleanup.Run(env.fs, c.Dir, cleanup.Options{
		DryRun:    c.DryRun,
		Recursive: c.Recursive || config.Pick(false, env.cfg.Cleanup.Recursive),
		Images:    env.filter,
		Progress:  env.progress(),
	}, env.log)
	if err != nil {
		return err
	}

	if report.Clean() && len(report.Failures) == 0 {
		fmt.Println(ui.Green.Render("No duplicates or corrupt images found.") + " " + ui.Dim.Render(fmt.Sprintf("(%d files scanned)", report.Scanned)))
		return nil
	}

	verb := "Removed"
	if report.DryRun {
		verb = "Would remove"
	}

	fmt.Println(ui.Cyan.Render("Summary:"))
	fmt.Println("  " + ui.Label("Scanned", report.Scanned))
	fmt.Println("  " + ui.Label("Duplicates", len(report.Duplicates)))
	fmt.Println("  " + ui.Label("Corrupt images", len(report.Corrupt)))
	if report.DryRun {
		fmt.Println()
		fmt.Println(ui.Yellow.Render("Dry-run mode enabled. No files were deleted."))
	}
	fmt.Println()

	for _, d := range report.Duplicates {
		fmt.Println(ui.Yellow.Render("[DUP]") + " " + verb + ": " + d.Path + ui.Dim.Render("  (duplicate of "+d.Original+")"))
	}
	for _, cr := range report.Corrupt {
		fmt.Println(ui.Red.Render("[CORRUPT]") + " " + verb + ": " + cr.Path)
	}
	printFailures(report.Failures)

	if !report.DryRun {
		fmt.Println()
		fmt.Println(ui.Green.Render("Cleanup complete.") + " " +
			ui.Label("Deleted", len(report.Removed)) + "  " +
			ui.Label("Reclaimed", file.FormatSize(report.Reclaimed)))
	}

	return nil
}
