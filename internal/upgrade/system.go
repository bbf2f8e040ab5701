package upgrade

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// System abstracts the filesystem operations used by an upgrade transaction.
// It is package-local so tests can inject failures without global state.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	MkdirTemp(dir string, pattern string) (string, error)
	MkdirAll(path string, perm os.FileMode) error
	CopyFile(src string, dst string) error
	Rename(oldpath string, newpath string) error
	RemoveAll(path string) error
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// MkdirTemp creates a new temporary directory.
func (RealSystem) MkdirTemp(dir string, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// CopyFile copies src to dst, keeping the source permissions. The copy is
// written next to dst and renamed into place.
func (RealSystem) CopyFile(src string, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf(messages.UpgradeCopyFailedFmt, src, dst, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf(messages.UpgradeCopyFailedFmt, src, dst, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.UpgradeCopyFailedFmt, src, dst, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.UpgradeCopyFailedFmt, src, dst, err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.UpgradeCopyFailedFmt, src, dst, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf(messages.UpgradeCopyFailedFmt, src, dst, err)
	}
	if err = os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf(messages.UpgradeCopyFailedFmt, src, dst, err)
	}
	return nil
}

// Rename renames (moves) oldpath to newpath.
func (RealSystem) Rename(oldpath string, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// RemoveAll removes path and any children it contains.
func (RealSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
