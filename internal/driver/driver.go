// Package driver runs the read, resolve, decide, upgrade loop over the inventory.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/conn-castle/cargo-install-upgrade/internal/config"
	"github.com/conn-castle/cargo-install-upgrade/internal/inventory"
	"github.com/conn-castle/cargo-install-upgrade/internal/logging"
	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
	"github.com/conn-castle/cargo-install-upgrade/internal/prompt"
	"github.com/conn-castle/cargo-install-upgrade/internal/upgrade"
)

// Resolver fills in the remote version of a package.
type Resolver interface {
	Resolve(ctx context.Context, pkg *inventory.Package)
}

// Upgrader decides and applies the action for a package.
type Upgrader interface {
	Decide(pkg *inventory.Package) upgrade.Action
	Apply(ctx context.Context, pkg *inventory.Package, action upgrade.Action) upgrade.Outcome
}

// Deps are the collaborators of one run.
type Deps struct {
	Read     func(cargoHome string) ([]*inventory.Package, error)
	Resolver Resolver
	Upgrader Upgrader
	// UI is only used for interactive runs.
	UI     prompt.UI
	Out    io.Writer
	Logger *slog.Logger
}

// Report summarizes a run.
type Report struct {
	Outcomes     []upgrade.Outcome
	NotInstalled []string
}

// Failed reports whether any package ended in a backup or rollback failure.
func (r Report) Failed() bool {
	for _, o := range r.Outcomes {
		switch o.State {
		case upgrade.StateBackupFailed, upgrade.StateRollbackFailed:
			return true
		}
	}
	return false
}

// Run processes the selected packages one at a time in inventory order.
// Only an unreadable inventory, a failed prompt, or cancellation is returned
// as an error; per-package failures are recorded in the report.
func Run(ctx context.Context, cfg config.RunConfig, deps Deps) (Report, error) {
	var report Report
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}

	packages, err := deps.Read(cfg.CargoHome)
	if err != nil {
		return report, fmt.Errorf(messages.DriverReadInventoryFmt, err)
	}
	deps.Logger.Debug("inventory read", "cargo_home", cfg.CargoHome, "packages", len(packages))

	selected := make([]*inventory.Package, 0, len(packages))
	for _, pkg := range packages {
		if cfg.Selection.Allows(pkg.Name) {
			selected = append(selected, pkg)
		}
	}

	if cfg.Interactive {
		err = runInteractive(ctx, selected, cfg.Upgrade, deps, &report)
	} else {
		err = runSequential(ctx, selected, deps, &report)
	}
	if err != nil {
		return report, err
	}

	report.NotInstalled = notInstalled(cfg.Selection, packages)
	for _, name := range report.NotInstalled {
		_, _ = fmt.Fprintf(deps.Out, messages.DriverNotInstalledFmt, name)
	}
	return report, nil
}

func runSequential(ctx context.Context, packages []*inventory.Package, deps Deps, report *Report) error {
	for _, pkg := range packages {
		if err := ctx.Err(); err != nil {
			return err
		}
		deps.Resolver.Resolve(ctx, pkg)
		report.Outcomes = append(report.Outcomes, deps.Upgrader.Apply(ctx, pkg, deps.Upgrader.Decide(pkg)))
	}
	return nil
}

// runInteractive resolves every package first, then lets the user pick
// which of the upgradable ones to reinstall. Real upgrades are confirmed
// once more before anything is uninstalled.
func runInteractive(ctx context.Context, packages []*inventory.Package, apply bool, deps Deps, report *Report) error {
	var candidates []*inventory.Package
	for _, pkg := range packages {
		if err := ctx.Err(); err != nil {
			return err
		}
		deps.Resolver.Resolve(ctx, pkg)
		action := deps.Upgrader.Decide(pkg)
		if action != upgrade.ActionUpgrade {
			report.Outcomes = append(report.Outcomes, deps.Upgrader.Apply(ctx, pkg, action))
			continue
		}
		candidates = append(candidates, pkg)
	}
	if len(candidates) == 0 {
		_, _ = fmt.Fprint(deps.Out, messages.PromptNothingToUpgrade)
		return nil
	}

	options := make([]prompt.Option, 0, len(candidates))
	chosen := make([]string, 0, len(candidates))
	for _, pkg := range candidates {
		options = append(options, prompt.Option{Label: pkg.String(), Value: pkg.Name})
		chosen = append(chosen, pkg.Name)
	}
	if err := deps.UI.MultiSelect(messages.PromptSelectTitle, options, &chosen); err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			deps.Logger.Info("selection cancelled")
			return nil
		}
		return err
	}

	picked := make(map[string]bool, len(chosen))
	for _, name := range chosen {
		picked[name] = true
	}
	if apply && len(chosen) > 0 {
		ok := true
		err := deps.UI.Confirm(fmt.Sprintf(messages.PromptConfirmTitleFmt, len(chosen)), &ok)
		if err != nil && !errors.Is(err, prompt.ErrCancelled) {
			return err
		}
		if err != nil || !ok {
			deps.Logger.Info("upgrade declined", "packages", len(chosen))
			picked = map[string]bool{}
		}
	}
	for _, pkg := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !picked[pkg.Name] {
			report.Outcomes = append(report.Outcomes, upgrade.Outcome{Package: pkg.Name, Action: upgrade.ActionUpgrade, State: upgrade.StateSkipped})
			continue
		}
		report.Outcomes = append(report.Outcomes, deps.Upgrader.Apply(ctx, pkg, upgrade.ActionUpgrade))
	}
	return nil
}

func notInstalled(selection config.Selection, packages []*inventory.Package) []string {
	installed := make(map[string]bool, len(packages))
	for _, pkg := range packages {
		installed[pkg.Name] = true
	}
	var missing []string
	for _, name := range selection.Requested() {
		if !installed[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
