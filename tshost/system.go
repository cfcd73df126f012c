package tshost

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// System is the file system view the host shares with plugins.
type System interface {
	FileExists(path string) bool
	DirectoryExists(path string) bool
	ReadFile(path string) (string, bool)
	Realpath(path string) string
}

type fsSystem struct {
	fs afero.Fs
}

// NewSystem returns a System backed by fs. Use afero.NewOsFs for the real disk.
func NewSystem(fs afero.Fs) System {
	return fsSystem{fs: fs}
}

// NewOSSystem returns a System backed by the operating system's file system.
func NewOSSystem() System {
	return NewSystem(afero.NewOsFs())
}

func (s fsSystem) FileExists(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (s fsSystem) DirectoryExists(path string) bool {
	ok, err := afero.DirExists(s.fs, path)
	return err == nil && ok
}

func (s fsSystem) ReadFile(path string) (string, bool) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (s fsSystem) Realpath(path string) string {
	if _, ok := s.fs.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			return filepath.ToSlash(resolved)
		}
	}
	return path
}
