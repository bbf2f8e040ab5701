// Package upgrade decides which packages to reinstall and runs each reinstall
// as a backup, uninstall, install, rollback transaction.
package upgrade

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/cargo-install-upgrade/internal/inventory"
	"github.com/conn-castle/cargo-install-upgrade/internal/logging"
	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
	"github.com/conn-castle/cargo-install-upgrade/internal/runner"
)

// State is the final state of one package after processing.
type State int

const (
	// StateSkipped means the package was left alone.
	StateSkipped State = iota
	// StateDryRun means an upgrade was announced but not performed.
	StateDryRun
	// StateBackupFailed means no snapshot could be taken, so nothing was changed.
	StateBackupFailed
	// StateSucceeded means the new version was installed.
	StateSucceeded
	// StateRolledBack means install failed and the snapshot was restored.
	StateRolledBack
	// StateRollbackFailed means install failed and the snapshot could not be fully restored.
	StateRollbackFailed
)

func (s State) String() string {
	switch s {
	case StateSkipped:
		return "skipped"
	case StateDryRun:
		return "dry_run"
	case StateBackupFailed:
		return "backup_failed"
	case StateSucceeded:
		return "succeeded"
	case StateRolledBack:
		return "rolled_back"
	case StateRollbackFailed:
		return "rollback_failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one package.
type Outcome struct {
	Package string
	Action  Action
	State   State
	// Snapshot is set when the backup directory was kept for manual recovery.
	Snapshot string
	Err      error
}

// Options configures an Orchestrator.
type Options struct {
	// Runner executes cargo install and cargo uninstall.
	Runner    runner.Runner
	System    System
	CargoHome string
	// Upgrade performs the transaction; when false only the Update line is printed.
	Upgrade bool
	Force   bool
	Verbose bool
	Out     io.Writer
	Logger  *slog.Logger
	// RenameAside moves binaries into the snapshot instead of copying them.
	// Nil selects rename-aside on Windows, where running executables are locked.
	RenameAside  *bool
	DiffMaxLines int
}

// Orchestrator applies upgrade decisions to packages.
type Orchestrator struct {
	runner       runner.Runner
	sys          System
	cargoHome    string
	upgrade      bool
	force        bool
	verbose      bool
	out          io.Writer
	logger       *slog.Logger
	renameAside  bool
	diffMaxLines int

	updateColor *color.Color
	skipColor   *color.Color
	warnColor   *color.Color
}

// New returns an Orchestrator.
func New(opts Options) *Orchestrator {
	sys := opts.System
	if sys == nil {
		sys = RealSystem{}
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	renameAside := runtime.GOOS == "windows"
	if opts.RenameAside != nil {
		renameAside = *opts.RenameAside
	}
	return &Orchestrator{
		runner:       opts.Runner,
		sys:          sys,
		cargoHome:    opts.CargoHome,
		upgrade:      opts.Upgrade,
		force:        opts.Force,
		verbose:      opts.Verbose,
		out:          out,
		logger:       logger,
		renameAside:  renameAside,
		diffMaxLines: opts.DiffMaxLines,
		updateColor:  color.New(color.FgGreen),
		skipColor:    color.New(color.Faint),
		warnColor:    color.New(color.FgYellow),
	}
}

// Decide returns the action for pkg under the configured force setting.
func (o *Orchestrator) Decide(pkg *inventory.Package) Action {
	return Decide(pkg.HasUpdate(), o.force, pkg.IsRegistry())
}

// Process decides and applies the action for pkg.
func (o *Orchestrator) Process(ctx context.Context, pkg *inventory.Package) Outcome {
	return o.Apply(ctx, pkg, o.Decide(pkg))
}

// Apply prints the status line for action and, for upgrades, runs the
// transaction unless this is a dry run.
func (o *Orchestrator) Apply(ctx context.Context, pkg *inventory.Package, action Action) Outcome {
	outcome := Outcome{Package: pkg.Name, Action: action, State: StateSkipped}
	switch action {
	case ActionSkipNeedsForce:
		_, _ = o.skipColor.Fprintf(o.out, messages.UpgradeNeedsForceFmt, pkg)
		return outcome
	case ActionSkipUpToDate:
		_, _ = o.skipColor.Fprintf(o.out, messages.UpgradeUpToDateFmt, pkg)
		return outcome
	}

	_, _ = o.updateColor.Fprintf(o.out, messages.UpgradeUpdateLineFmt, pkg)
	if !o.upgrade {
		outcome.State = StateDryRun
		return outcome
	}
	return o.transact(ctx, pkg, outcome)
}

func (o *Orchestrator) transact(ctx context.Context, pkg *inventory.Package, outcome Outcome) Outcome {
	snap, err := o.createSnapshot(pkg)
	if err != nil {
		backupErr := &BackupError{Package: pkg.Name, Err: err}
		o.logger.Error("backup failed", "package", pkg.Name, "error", err)
		_, _ = o.warnColor.Fprintf(o.out, messages.UpgradeBackupFailedFmt, pkg.Name, err)
		outcome.State = StateBackupFailed
		outcome.Err = backupErr
		return outcome
	}

	o.logger.Info("uninstall", "package", pkg.Name)
	if err := o.runner.Run(ctx, []string{"cargo", "uninstall", pkg.Name}); err != nil {
		o.logger.Warn("uninstall failed", "package", pkg.Name, "error", err)
		_, _ = o.warnColor.Fprintf(o.out, messages.UpgradeUninstallWarnFmt, pkg.Name, err)
	}

	argv, err := InstallArgs(pkg)
	if err == nil {
		o.logger.Info("install", "package", pkg.Name, "argv", strings.Join(argv, " "))
		// The rollback must run even when the run was cancelled after uninstall.
		err = o.runner.Run(context.WithoutCancel(ctx), argv)
	}
	if err != nil {
		snap.failureStep = "install"
		outcome.Err = fmt.Errorf(messages.UpgradeInstallFailedFmt, pkg.Name, err)
		o.logger.Error("install failed", "package", pkg.Name, "error", err)
		_, _ = o.warnColor.Fprint(o.out, messages.UpgradeNotSuccessful)
		return o.rollback(pkg, snap, outcome)
	}

	snap.status = snapshotStatusApplied
	outcome.State = StateSucceeded
	if o.verbose {
		o.printInventoryDiff(snap)
	}
	o.finish(snap)
	return outcome
}

func (o *Orchestrator) rollback(pkg *inventory.Package, snap *snapshot, outcome Outcome) Outcome {
	if err := o.restore(pkg, snap); err != nil {
		o.logger.Error("rollback failed", "package", pkg.Name, "snapshot", snap.dir, "error", err)
		_, _ = o.warnColor.Fprintf(o.out, messages.UpgradeRollbackFailedFmt, pkg.Name, err, snap.dir)
		outcome.State = StateRollbackFailed
		outcome.Snapshot = snap.dir
		outcome.Err = err
		o.finish(snap)
		return outcome
	}
	outcome.State = StateRolledBack
	o.finish(snap)
	return outcome
}

// printInventoryDiff shows how the legacy inventory changed during the upgrade.
func (o *Orchestrator) printInventoryDiff(snap *snapshot) {
	live := inventory.LegacyPath(o.cargoHome)
	saved, ok := snap.savedPath(live)
	if !ok {
		return
	}
	before, err := o.sys.ReadFile(saved)
	if err != nil {
		o.logger.Debug("read saved inventory", "path", saved, "error", err)
		return
	}
	after, err := o.sys.ReadFile(live)
	if err != nil {
		o.logger.Debug("read live inventory", "path", live, "error", err)
		return
	}
	diff := renderTruncatedDiff(inventory.LegacyFileName+" (before)", inventory.LegacyFileName+" (after)", string(before), string(after), o.diffMaxLines)
	if diff == "" {
		return
	}
	_, _ = fmt.Fprintf(o.out, messages.UpgradeDiffHeaderFmt, inventory.LegacyFileName)
	_, _ = fmt.Fprint(o.out, diff)
}

// InstallArgs returns the cargo install command line for pkg.
func InstallArgs(pkg *inventory.Package) ([]string, error) {
	var argv []string
	switch src := pkg.Source.(type) {
	case *inventory.Registry:
		argv = []string{"cargo", "install", pkg.Name}
	case *inventory.Git:
		argv = []string{"cargo", "install", "--git", src.URL}
	case *inventory.Local:
		argv = []string{"cargo", "install", "--path", src.Path}
	default:
		return nil, fmt.Errorf(messages.UpgradeUnknownSourceFmt, pkg.Source)
	}
	if len(pkg.Features) > 0 {
		argv = append(argv, "--features", strings.Join(pkg.Features, ","))
	}
	if pkg.AllFeatures {
		argv = append(argv, "--all-features")
	}
	if pkg.NoDefaultFeatures {
		argv = append(argv, "--no-default-features")
	}
	return argv, nil
}
