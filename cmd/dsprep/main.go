package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config  string `short:"c" long:"config" description:"YAML config file with defaults for every command"`
	Verbose bool   `short:"v" long:"verbose" description:"Log per-file detail"`
	NoColor bool   `long:"no-color" description:"Disable colored output"`
}

var options Options

var parser = flags.NewParser(&options, flags.Default)

func main() {
	parser.LongDescription = "Prepare image datasets: rename, split, clean up and check class balance."

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			fmt.Fprintln(os.Stdout)
			parser.WriteHelp(os.Stdout)
		}
		os.Exit(1)
	}
}
