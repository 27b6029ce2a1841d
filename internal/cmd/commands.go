// Package cmd wires pantry's internal engine packages into a small set
// of mitchellh/cli command factories, each wrapping a cobra.Command.
// None of the business logic lives here: every command does nothing
// more than parse flags and call into internal/cache, internal/registry,
// internal/resolve, internal/manifest, and internal/catalog.
package cmd

import (
	"github.com/mitchellh/cli"

	"github.com/home-lang/pantry/internal/config"
)

// Commands returns the command factory map a mitchellh/cli.CLI is
// constructed with.
func Commands(cfg *config.Config, ui cli.Ui) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"install": func() (cli.Command, error) {
			return &InstallCommand{Config: cfg, UI: ui}, nil
		},
		"clean": func() (cli.Command, error) {
			return &CleanCommand{Config: cfg, UI: ui}, nil
		},
	}
}
