package main

import (
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/cargo-install-upgrade/internal/config"
	"github.com/conn-castle/cargo-install-upgrade/internal/driver"
	"github.com/conn-castle/cargo-install-upgrade/internal/inventory"
	"github.com/conn-castle/cargo-install-upgrade/internal/logging"
	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
	"github.com/conn-castle/cargo-install-upgrade/internal/prompt"
	"github.com/conn-castle/cargo-install-upgrade/internal/resolve"
	"github.com/conn-castle/cargo-install-upgrade/internal/runner"
	"github.com/conn-castle/cargo-install-upgrade/internal/terminal"
	"github.com/conn-castle/cargo-install-upgrade/internal/upgrade"
)

var (
	runDriver     = driver.Run
	readInventory = inventory.Read
	newUI         = func() prompt.UI { return prompt.NewHuhUI() }
	findCargoHome = func(explicit string) (string, error) {
		return config.FindCargoHome(explicit, config.Discovery{})
	}
)

type rootFlags struct {
	packages    []string
	exclude     []string
	force       bool
	verbose     bool
	dryRun      bool
	interactive bool
	cargo       string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(cmd, flags)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.packages, "packages", "p", nil, messages.FlagPackages)
	cmd.Flags().StringSliceVarP(&flags.exclude, "exclude", "e", nil, messages.FlagExclude)
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, messages.FlagForce)
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, messages.FlagVerbose)
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "d", false, messages.FlagDryRun)
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, messages.FlagInteractive)
	cmd.Flags().StringVarP(&flags.cargo, "cargo", "c", "", messages.FlagCargo)
	cmd.MarkFlagsMutuallyExclusive("packages", "exclude")
	return cmd
}

func runUpgrade(cmd *cobra.Command, flags rootFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	if !terminal.IsTerminalWriter(out) {
		color.NoColor = true
	}

	cargoHome, err := findCargoHome(flags.cargo)
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings(cargoHome)
	if err != nil {
		return err
	}
	cfg, err := config.Build(toConfigFlags(cmd, flags), settings, cargoHome)
	if err != nil {
		return err
	}

	logger := logging.New(errOut, cfg.Verbose)
	logger.Debug("run configuration", "cargo_home", cfg.CargoHome, "upgrade", cfg.Upgrade, "force", cfg.Force, "interactive", cfg.Interactive)

	installRunner := &runner.Exec{Stream: true, Stdout: out, Stderr: errOut, Logger: logger}
	queryRunner := &runner.Exec{Stream: cfg.Verbose, Stdout: errOut, Stderr: errOut, Logger: logger}

	deps := driver.Deps{
		Read: readInventory,
		Resolver: resolve.New(resolve.Options{
			Runner:        queryRunner,
			Logger:        logger,
			Warn:          out,
			SearchRetries: cfg.SearchRetries,
		}),
		Upgrader: upgrade.New(upgrade.Options{
			Runner:    installRunner,
			System:    upgrade.RealSystem{},
			CargoHome: cfg.CargoHome,
			Upgrade:   cfg.Upgrade,
			Force:     cfg.Force,
			Verbose:   cfg.Verbose,
			Out:       out,
			Logger:    logger,
		}),
		Out:    out,
		Logger: logger,
	}
	if cfg.Interactive {
		deps.UI = newUI()
	}

	report, err := runDriver(ctx, cfg, deps)
	if err != nil {
		return err
	}
	logger.Debug("run finished", "packages", len(report.Outcomes), "not_installed", len(report.NotInstalled), "failed", report.Failed())
	return nil
}

// toConfigFlags keeps force and verbose unset unless given, so the settings
// file can supply them.
func toConfigFlags(cmd *cobra.Command, flags rootFlags) config.Flags {
	out := config.Flags{
		Packages:    flags.packages,
		Exclude:     flags.exclude,
		DryRun:      flags.dryRun,
		Interactive: flags.interactive,
		CargoHome:   flags.cargo,
	}
	if cmd.Flags().Changed("force") {
		out.Force = boolPtr(flags.force)
	}
	if cmd.Flags().Changed("verbose") {
		out.Verbose = boolPtr(flags.verbose)
	}
	return out
}

func boolPtr(v bool) *bool { return &v }
