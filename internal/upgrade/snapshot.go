package upgrade

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/conn-castle/cargo-install-upgrade/internal/inventory"
	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

type snapshotStatus string

const (
	snapshotStatusCreated        snapshotStatus = "created"
	snapshotStatusApplied        snapshotStatus = "applied"
	snapshotStatusAutoRolledBack snapshotStatus = "auto_rolled_back"
	snapshotStatusRollbackFailed snapshotStatus = "rollback_failed"
)

// snapshotEntry pairs a live file with its saved copy.
type snapshotEntry struct {
	original string
	saved    string
}

type snapshot struct {
	dir         string
	status      snapshotStatus
	failureStep string
	entries     []snapshotEntry
}

// createSnapshot copies the package binaries and both inventory files into
// a fresh temporary directory. Binaries missing on disk are skipped; any
// other failure discards the snapshot.
func (o *Orchestrator) createSnapshot(pkg *inventory.Package) (*snapshot, error) {
	dir, err := o.sys.MkdirTemp("", "cargo-install-upgrade-"+pkg.Name+"-")
	if err != nil {
		return nil, fmt.Errorf(messages.UpgradeSnapshotCreateFmt, err)
	}
	snap := &snapshot{dir: dir, status: snapshotStatusCreated}
	binDir := filepath.Join(dir, inventory.BinDirName)
	if err := o.sys.MkdirAll(binDir, 0o755); err != nil {
		o.discardSnapshot(snap)
		return nil, fmt.Errorf(messages.UpgradeSnapshotBinDirFmt, binDir, err)
	}

	for _, binary := range pkg.Binaries {
		saved := filepath.Join(binDir, filepath.Base(binary))
		if err := o.saveBinary(binary, saved); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				o.logger.Warn("binary missing on disk, not backed up", "package", pkg.Name, "binary", binary)
				continue
			}
			o.discardSnapshot(snap)
			return nil, fmt.Errorf(messages.UpgradeSnapshotBinaryFmt, binary, err)
		}
		snap.entries = append(snap.entries, snapshotEntry{original: binary, saved: saved})
	}

	for _, path := range inventory.MetadataPaths(o.cargoHome) {
		if _, err := o.sys.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			o.discardSnapshot(snap)
			return nil, fmt.Errorf(messages.UpgradeSnapshotMetadataFmt, path, err)
		}
		saved := filepath.Join(dir, filepath.Base(path))
		if err := o.sys.CopyFile(path, saved); err != nil {
			o.discardSnapshot(snap)
			return nil, fmt.Errorf(messages.UpgradeSnapshotMetadataFmt, path, err)
		}
		snap.entries = append(snap.entries, snapshotEntry{original: path, saved: saved})
	}
	o.logger.Debug("snapshot created", "package", pkg.Name, "dir", dir, "entries", len(snap.entries))
	return snap, nil
}

// saveBinary stores one binary in the snapshot. In rename-aside mode the
// live file is moved out of the way first, which works even when the binary
// is running, and then copied back so the uninstall step still finds it.
func (o *Orchestrator) saveBinary(binary string, saved string) error {
	if _, err := o.sys.Stat(binary); err != nil {
		return err
	}
	if !o.renameAside {
		return o.sys.CopyFile(binary, saved)
	}
	if err := o.sys.Rename(binary, saved); err != nil {
		return err
	}
	if err := o.sys.CopyFile(saved, binary); err != nil {
		// The live binary is gone; keep the upgrade going since install recreates it.
		o.logger.Warn("binary not copied back after rename", "binary", binary, "error", err)
	}
	return nil
}

// restore copies every saved file back over its live path and collects failures.
func (o *Orchestrator) restore(pkg *inventory.Package, snap *snapshot) error {
	var errs []error
	for _, entry := range snap.entries {
		if err := o.sys.CopyFile(entry.saved, entry.original); err != nil {
			errs = append(errs, fmt.Errorf(messages.UpgradeRollbackEntryFmt, entry.original, err))
		}
	}
	if len(errs) > 0 {
		snap.status = snapshotStatusRollbackFailed
		return &RollbackError{Package: pkg.Name, Snapshot: snap.dir, Errs: errs}
	}
	snap.status = snapshotStatusAutoRolledBack
	return nil
}

// finish removes the snapshot directory unless a failed rollback needs it.
func (o *Orchestrator) finish(snap *snapshot) {
	o.logger.Debug("snapshot finished", "dir", snap.dir, "status", string(snap.status), "failure_step", snap.failureStep)
	if snap.status == snapshotStatusRollbackFailed {
		return
	}
	o.discardSnapshot(snap)
}

func (o *Orchestrator) discardSnapshot(snap *snapshot) {
	if err := o.sys.RemoveAll(snap.dir); err != nil {
		o.logger.Warn("remove snapshot directory", "dir", snap.dir, "error", err)
	}
}

func (s *snapshot) savedPath(original string) (string, bool) {
	for _, entry := range s.entries {
		if entry.original == original {
			return entry.saved, true
		}
	}
	return "", false
}
