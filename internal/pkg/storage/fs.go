package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// FS is the filesystem capability the storage layer works through.
// EnsureDir must be idempotent and safe to race.
type FS interface {
	EnsureDir(path string) error
	Rename(oldPath, newPath string) error
	Remove(path string) error
	RemoveAll(path string) error
	Stat(path string) (fs.FileInfo, error)
}

// OSFS is the real filesystem.
type OSFS struct{}

func (OSFS) EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Rename moves a file, copying across devices when a plain rename fails.
func (OSFS) Rename(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err == nil {
		return nil
	} else if !isCrossDevice(err) {
		return err
	}
	if err := copyFile(oldPath, newPath); err != nil {
		_ = os.Remove(newPath)
		return err
	}
	return os.Remove(oldPath)
}

func (OSFS) Remove(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (OSFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
