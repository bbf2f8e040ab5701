package upgrade

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

var (
	// ErrBackupFailure is matched by every BackupError.
	ErrBackupFailure = errors.New("backup failed")
	// ErrRollbackFailure is matched by every RollbackError.
	ErrRollbackFailure = errors.New("rollback failed")
)

// BackupError reports that the pre-upgrade snapshot could not be created.
type BackupError struct {
	Package string
	Err     error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf(messages.UpgradeBackupErrFmt, e.Package, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BackupError) Unwrap() error { return e.Err }

// Is reports whether target is ErrBackupFailure.
func (e *BackupError) Is(target error) bool { return target == ErrBackupFailure }

// RollbackError collects every file that could not be restored.
type RollbackError struct {
	Package  string
	Snapshot string
	Errs     []error
}

func (e *RollbackError) Error() string {
	parts := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf(messages.UpgradeRollbackErrFmt, e.Package, strings.Join(parts, "; "))
}

// Unwrap returns the collected causes.
func (e *RollbackError) Unwrap() []error { return e.Errs }

// Is reports whether target is ErrRollbackFailure.
func (e *RollbackError) Is(target error) bool { return target == ErrRollbackFailure }
