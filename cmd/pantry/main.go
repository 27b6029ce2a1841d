// Command pantry is the CLI entry point. It only wires flags and
// commands together; every command's real behavior lives in
// importable internal/ packages.
package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"
	"github.com/spf13/pflag"

	pantrycmd "github.com/home-lang/pantry/internal/cmd"
	"github.com/home-lang/pantry/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("pantry", pflag.ContinueOnError)
	config.AddFlags(flags)
	// Flags are bound into viper by config.Load below; parsing errors at
	// this layer are deferred to the individual command's own cobra flags.
	_ = flags.Parse(args)

	repoRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.Load(repoRoot, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ui := &cli.ColoredUi{
		Ui: &cli.BasicUi{
			Writer:      os.Stdout,
			ErrorWriter: os.Stderr,
			Reader:      os.Stdin,
		},
		OutputColor: cli.UiColorNone,
		InfoColor:   cli.UiColorNone,
		ErrorColor:  cli.UiColorRed,
		WarnColor:   cli.UiColorYellow,
	}

	c := cli.NewCLI("pantry", "0.1.0")
	c.Args = args
	c.Commands = pantrycmd.Commands(cfg, ui)

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}
