package fs

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFS is the FS backed by the local operating system.
type OSFS struct{}

func New() *OSFS {
	return &OSFS{}
}

// FromFileInfo converts an os.FileInfo found at path.
func FromFileInfo(path string, st os.FileInfo) FileInfo {
	return FileInfo{
		Path:    path,
		Name:    st.Name(),
		Size:    st.Size(),
		Mode:    st.Mode(),
		ModTime: st.ModTime(),
	}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FromFileInfo(path, st), nil
}

func (o *OSFS) Lstat(path string) (FileInfo, error) {
	st, err := os.Lstat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FromFileInfo(path, st), nil
}

// ReadDir lists dir in name order.
func (o *OSFS) ReadDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			// removed between readdir and stat
			continue
		}
		out = append(out, FromFileInfo(filepath.Join(path, e.Name()), info))
	}
	return out, nil
}

func (o *OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (o *OSFS) CreateExcl(path string, mode fs.FileMode) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
}

func (o *OSFS) Chmod(ctx context.Context, path string, mode fs.FileMode) error {
	return retry(ctx, "chmod", func() error {
		return os.Chmod(path, mode)
	})
}
