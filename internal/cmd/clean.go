package cmd

import (
	"github.com/mitchellh/cli"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/home-lang/pantry/internal/cache"
	"github.com/home-lang/pantry/internal/config"
	"github.com/home-lang/pantry/internal/paths"
)

// CleanCommand wipes the local package cache.
type CleanCommand struct {
	Config *config.Config
	UI     cli.Ui
}

func (c *CleanCommand) Synopsis() string { return getCleanCmd(c.Config, c.UI).Short }
func (c *CleanCommand) Help() string     { return getCleanCmd(c.Config, c.UI).UsageString() }

func (c *CleanCommand) Run(args []string) int {
	cmd := getCleanCmd(c.Config, c.UI)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

type cleanOpts struct {
	force bool
}

func addCleanFlags(o *cleanOpts, flags *pflag.FlagSet) {
	flags.BoolVar(&o.force, "force", false, "Accepted but has no effect: clean never asks for confirmation")
}

func getCleanCmd(cfg *config.Config, ui cli.Ui) *cobra.Command {
	opts := &cleanOpts{}
	cmd := &cobra.Command{
		Use:           "clean",
		Short:         "Remove every entry from the local package cache.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.NamedLogger("cache")
			if err := runClean(cfg, opts); err != nil {
				logCommandError(logger, ui, err)
				return err
			}
			ui.Output("cache cleaned")
			return nil
		},
	}
	addCleanFlags(opts, cmd.Flags())
	return cmd
}

func runClean(cfg *config.Config, _ *cleanOpts) error {
	dirs, err := paths.Resolve()
	if err != nil {
		return errors.Wrap(err, "locating pantry directories")
	}
	local, err := cache.NewLocalCache(cfg.CacheOptions(dirs.CacheObjectsDir()))
	if err != nil {
		return errors.Wrap(err, "opening cache")
	}
	return local.Clean()
}
