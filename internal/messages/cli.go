package messages

// CLI messages for the root command.
const (
	// RootUse is the command line as typed through cargo.
	RootUse   = "cargo install-upgrade"
	RootShort = "Upgrade packages installed with cargo install"
	RootLong  = `Reads the cargo install inventory, checks every package against its source
(crates.io, a git repository, or a local path) and reinstalls the ones that
are out of date. Each reinstall backs up the binaries and inventory files
first and restores them if the new install fails.`

	// CargoSubcommand is the first argument cargo passes to external subcommands.
	CargoSubcommand = "install-upgrade"

	FlagPackages    = "Only upgrade the listed packages (repeatable)"
	FlagExclude     = "Upgrade every package except the listed ones (repeatable)"
	FlagForce       = "Reinstall git and local packages even when their version did not change"
	FlagVerbose     = "Print subprocess output and debug logs"
	FlagDryRun      = "Only print what would be upgraded"
	FlagCargo       = "Cargo home directory (defaults to $CARGO_HOME or ~/.cargo)"
	FlagInteractive = "Choose which packages to upgrade from a list"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"
)
