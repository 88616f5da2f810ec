package archive

import (
	iofs "io/fs"
	"path/filepath"
)

// skipFunc is told about entries that will not be archived.
type skipFunc func(path, reason string)

// walkFiles calls fn for every regular file under root in lexical order.
// Symbolic links and special files are reported to skipped and never
// followed. Unreadable subdirectories are skipped.
func walkFiles(root string, skipped skipFunc, fn func(path string, d iofs.DirEntry) error) error {
	if skipped == nil {
		skipped = func(string, string) {}
	}
	return filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if path != root && d != nil && d.IsDir() {
				skipped(path, "unreadable directory: "+err.Error())
				return filepath.SkipDir
			}
			return err
		}

		switch {
		case d.Type()&iofs.ModeSymlink != 0:
			skipped(path, "symbolic link")
			return nil
		case d.IsDir():
			return nil
		case !d.Type().IsRegular():
			skipped(path, "not a regular file")
			return nil
		}
		return fn(path, d)
	})
}
