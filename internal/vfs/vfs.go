// Package vfs is the file system the output stage writes through.
package vfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS is the write-side contract used by the artifact writer.
type FS interface {
	WriteFile(path string, contents string) error
	Join(dir, name string) string
}

// Afero adapts an afero.Fs to FS. Parent directories are created on write.
type Afero struct {
	Fs afero.Fs
}

// OS returns an FS backed by the real file system.
func OS() *Afero {
	return &Afero{Fs: afero.NewOsFs()}
}

// Memory returns an FS backed by an in-memory file system.
func Memory() *Afero {
	return &Afero{Fs: afero.NewMemMapFs()}
}

// WriteFile writes contents to path, replacing any existing file.
func (a *Afero) WriteFile(path string, contents string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := a.Fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(a.Fs, path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Join joins dir and name with the platform separator.
func (a *Afero) Join(dir, name string) string {
	return filepath.Join(dir, name)
}

// ReadFile returns the contents of path.
func (a *Afero) ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(a.Fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Remove deletes path. A missing file is not an error.
func (a *Afero) Remove(path string) error {
	err := a.Fs.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether path exists.
func (a *Afero) Exists(path string) bool {
	ok, err := afero.Exists(a.Fs, path)
	return err == nil && ok
}
