// Package backups lists the archives stored in a backup directory.
package backups

import (
	"sort"
	"time"

	"github.com/juju/errors"

	"github.com/raoulx24/kback/internal/archive"
	"github.com/raoulx24/kback/internal/fs"
)

const ErrBackupDirMissing = errors.ConstError("the backup directory does not exist")

// Archive describes one entry of the backup directory.
type Archive struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool

	// Source and Timestamp are set when Name follows the archive naming
	// scheme.
	Source    string
	Timestamp time.Time
}

// FromFileInfo builds an Archive from a directory entry.
func FromFileInfo(info fs.FileInfo) Archive {
	a := Archive{
		Name:    info.Name,
		Path:    info.Path,
		Size:    info.Size,
		ModTime: info.ModTime,
		IsDir:   info.IsDir(),
	}
	if base, ts, ok := archive.ParseName(info.Name, time.Local); ok {
		a.Source = base
		a.Timestamp = ts
	}
	return a
}

// Managed reports whether the entry was named by kback.
func (a Archive) Managed() bool { return !a.Timestamp.IsZero() }

// List returns every entry of dir sorted by name.
func List(f fs.FS, dir string) ([]Archive, error) {
	info, err := f.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Annotatef(ErrBackupDirMissing, "%q", dir)
	}

	entries, err := f.ReadDir(dir)
	if err != nil {
		return nil, errors.Annotatef(err, "reading %s", dir)
	}

	out := make([]Archive, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromFileInfo(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
