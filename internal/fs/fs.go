// Package fs defines the filesystem abstraction used by kback.
// It provides the FS interface and the FileInfo type shared across the system.
package fs

import (
	"context"
	"io"
	"io/fs"
	"time"
)

type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
}

// IsSymlink reports whether the entry is a symbolic link (never followed).
func (fi FileInfo) IsSymlink() bool { return fi.Mode&fs.ModeSymlink != 0 }

func (fi FileInfo) IsDir() bool { return fi.Mode.IsDir() }

func (fi FileInfo) IsRegular() bool { return fi.Mode.IsRegular() }

type FS interface {
	Stat(path string) (FileInfo, error)
	Lstat(path string) (FileInfo, error)
	ReadDir(path string) ([]FileInfo, error)
	MkdirAll(path string) error
	// CreateExcl creates path for writing and fails with fs.ErrExist when
	// it is already there.
	CreateExcl(path string, mode fs.FileMode) (io.WriteCloser, error)
	Chmod(ctx context.Context, path string, mode fs.FileMode) error
}
