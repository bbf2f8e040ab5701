package upgrade

import (
	"os"
)

// testSystem provides a System for unit tests.
//
// Fallback behavior: every method delegates to RealSystem unless its Func
// field is set, so tests can use t.TempDir() fixtures and override only the
// operation they want to fail.
type testSystem struct {
	RealSystem

	StatFunc      func(name string) (os.FileInfo, error)
	ReadFileFunc  func(name string) ([]byte, error)
	MkdirTempFunc func(dir string, pattern string) (string, error)
	MkdirAllFunc  func(path string, perm os.FileMode) error
	CopyFileFunc  func(src string, dst string) error
	RenameFunc    func(oldpath string, newpath string) error
	RemoveAllFunc func(path string) error
}

func (s *testSystem) Stat(name string) (os.FileInfo, error) {
	if s.StatFunc != nil {
		return s.StatFunc(name)
	}
	return s.RealSystem.Stat(name)
}

func (s *testSystem) ReadFile(name string) ([]byte, error) {
	if s.ReadFileFunc != nil {
		return s.ReadFileFunc(name)
	}
	return s.RealSystem.ReadFile(name)
}

func (s *testSystem) MkdirTemp(dir string, pattern string) (string, error) {
	if s.MkdirTempFunc != nil {
		return s.MkdirTempFunc(dir, pattern)
	}
	return s.RealSystem.MkdirTemp(dir, pattern)
}

func (s *testSystem) MkdirAll(path string, perm os.FileMode) error {
	if s.MkdirAllFunc != nil {
		return s.MkdirAllFunc(path, perm)
	}
	return s.RealSystem.MkdirAll(path, perm)
}

func (s *testSystem) CopyFile(src string, dst string) error {
	if s.CopyFileFunc != nil {
		return s.CopyFileFunc(src, dst)
	}
	return s.RealSystem.CopyFile(src, dst)
}

func (s *testSystem) Rename(oldpath string, newpath string) error {
	if s.RenameFunc != nil {
		return s.RenameFunc(oldpath, newpath)
	}
	return s.RealSystem.Rename(oldpath, newpath)
}

func (s *testSystem) RemoveAll(path string) error {
	if s.RemoveAllFunc != nil {
		return s.RemoveAllFunc(path)
	}
	return s.RealSystem.RemoveAll(path)
}
