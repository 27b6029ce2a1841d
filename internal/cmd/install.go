package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/mitchellh/cli"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/home-lang/pantry/internal/cache"
	"github.com/home-lang/pantry/internal/catalog"
	"github.com/home-lang/pantry/internal/config"
	"github.com/home-lang/pantry/internal/environment"
	"github.com/home-lang/pantry/internal/manifest"
	"github.com/home-lang/pantry/internal/paths"
	"github.com/home-lang/pantry/internal/registry"
	"github.com/home-lang/pantry/internal/resolve"
)

// InstallCommand resolves a project's manifest and materializes an
// environment for it. Every step delegates to an importable internal
// package; this type only wires them together for the CLI.
type InstallCommand struct {
	Config *config.Config
	UI     cli.Ui
}

func (c *InstallCommand) Synopsis() string { return getInstallCmd(c.Config, c.UI).Short }
func (c *InstallCommand) Help() string     { return getInstallCmd(c.Config, c.UI).UsageString() }

func (c *InstallCommand) Run(args []string) int {
	cmd := getInstallCmd(c.Config, c.UI)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

type installOpts struct {
	manifestPath string
}

func addInstallFlags(o *installOpts, flags *pflag.FlagSet) {
	flags.StringVar(&o.manifestPath, "manifest", "pantry.json", "Path to the dependency manifest")
}

func getInstallCmd(cfg *config.Config, ui cli.Ui) *cobra.Command {
	opts := &installOpts{}
	cmd := &cobra.Command{
		Use:           "install [--manifest pantry.json]",
		Short:         "Resolve and install a project's dependencies.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.NamedLogger("install")
			if err := runInstall(cfg, logger, opts); err != nil {
				logCommandError(logger, ui, err)
				return err
			}
			ui.Output(color.GreenString("install complete"))
			return nil
		},
	}
	addInstallFlags(opts, cmd.Flags())
	return cmd
}

func logCommandError(logger interface{ Error(string, ...interface{}) }, ui cli.Ui, err error) {
	logger.Error("error", "err", err)
	pref := color.New(color.Bold, color.FgRed, color.ReverseVideo).Sprint(" ERROR ")
	ui.Error(fmt.Sprintf("%s%s", pref, color.RedString(" %v", err)))
}

func runInstall(cfg *config.Config, logger interface {
	Trace(string, ...interface{})
	Warn(string, ...interface{})
}, opts *installOpts) error {
	ctx := context.Background()

	m, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return errors.Wrap(err, "loading manifest")
	}

	catalogs := catalog.FromManifest(m)
	resolver := resolve.NewResolutionContext(resolve.PolicyHighestCompatible, "")
	for pkg, rng := range m.Dependencies {
		if resolved, ok := catalogs.ResolveCatalogReference(pkg, rng); ok {
			rng = resolved
		}
		resolver.Conflicts.RecordRequirement(pkg, m.Name, rng)
	}
	for pkg, rng := range m.DevDependencies {
		if resolved, ok := catalogs.ResolveCatalogReference(pkg, rng); ok {
			rng = resolved
		}
		resolver.Conflicts.RecordRequirement(pkg, m.Name, rng)
	}

	result, err := resolver.ResolveAll()
	if err != nil {
		return errors.Wrap(err, "resolving dependencies")
	}

	dirs, err := paths.Resolve()
	if err != nil {
		return errors.Wrap(err, "locating pantry directories")
	}

	local, err := cache.NewLocalCache(cfg.CacheOptions(dirs.CacheObjectsDir()))
	if err != nil {
		return errors.Wrap(err, "opening cache")
	}
	shared, err := cache.NewSharedCache(local, true)
	if err != nil {
		return errors.Wrap(err, "opening shared cache")
	}

	reg := registry.NewRegistryManager()
	reg.AddBackend(registry.NewNPMBackend("https://registry.npmjs.org"), 0)

	env, err := environment.Create(dirs, opts.manifestPath)
	if err != nil {
		return errors.Wrap(err, "creating environment")
	}
	logger.Trace("environment", "hash", env.Hash, "root", env.Root)

	for pkg, resolution := range result.ConflictResolutions {
		if resolution.Conflicting && resolution.Chosen == "" {
			logger.Warn("unresolved conflict", "package", pkg)
			continue
		}
		if err := installOne(ctx, reg, shared, pkg, resolution.Chosen); err != nil {
			logger.Warn("install failed", "package", pkg, "err", err.Error())
		}
	}
	return nil
}

func installOne(ctx context.Context, reg *registry.RegistryManager, c *cache.SharedCache, pkg, rng string) error {
	versions, _, err := reg.ListVersions(ctx, pkg)
	if err != nil {
		return err
	}
	version, ok := resolve.MaxSatisfying(rng, versions)
	if !ok {
		return errors.Errorf("no version of %s satisfies %s", pkg, rng)
	}
	if c.Has(pkg, version) {
		return nil
	}

	meta, _, err := reg.FetchMetadata(ctx, pkg)
	if err != nil {
		return err
	}
	var tarballURL, sha string
	for _, v := range meta.Versions {
		if v.Version == version {
			tarballURL, sha = v.TarballURL, v.SHA256
			break
		}
	}
	if tarballURL == "" {
		return errors.Errorf("no tarball URL for %s@%s", pkg, version)
	}

	body, _, err := reg.DownloadTarball(ctx, pkg, version, tarballURL)
	if err != nil {
		return err
	}
	return c.Put(pkg, version, tarballURL, sha, body)
}
