package messages

// Upgrade transaction messages.
const (
	// UpgradeUpdateLineFmt announces an upgrade (or a would-be upgrade on dry runs).
	UpgradeUpdateLineFmt    = "Update %s\n"
	UpgradeNeedsForceFmt    = "%s is a local/git package. Force an upgrade with -f\n"
	UpgradeUpToDateFmt      = "%s is up to date.\n"
	UpgradeNotSuccessful    = "Update not successful. Use backup\n"
	UpgradeUninstallWarnFmt = "Warning: uninstall of %s failed: %v\n"
	UpgradeBackupFailedFmt  = "Could not back up %s, skipping upgrade: %v\n"

	// UpgradeRollbackFailedFmt is printed when the snapshot could not be restored.
	UpgradeRollbackFailedFmt = "Restoring %s from backup failed: %v\nThe backup was kept at %s\n"
	UpgradeDiffHeaderFmt     = "Changes to %s:\n"
	UpgradeDiffTruncatedFmt  = "... (%d more lines)\n"

	UpgradeSnapshotCreateFmt   = "create snapshot directory: %w"
	UpgradeSnapshotBinDirFmt   = "create snapshot bin directory %s: %w"
	UpgradeSnapshotMetadataFmt = "copy %s into snapshot: %w"
	UpgradeSnapshotBinaryFmt   = "save binary %s into snapshot: %w"
	UpgradeBackupErrFmt        = "backup of %s failed: %v"
	UpgradeRollbackErrFmt      = "rollback of %s failed: %s"
	UpgradeRollbackEntryFmt    = "restore %s: %v"
	UpgradeInstallFailedFmt    = "install %s: %w"
	UpgradeCopyFailedFmt       = "copy %s to %s: %w"
	UpgradeUnknownSourceFmt    = "no install command for source %T"
)
