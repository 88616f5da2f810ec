// Package archive writes a file or directory tree into a timestamped
// tar.gz archive inside the backup directory.
package archive

import (
	"archive/tar"
	"context"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/klauspost/compress/gzip"

	"github.com/raoulx24/kback/internal/fs"
	"github.com/raoulx24/kback/internal/logging"
	"github.com/raoulx24/kback/internal/progress"
)

// ArchiveMode is applied to every finished archive so any user of the
// backup directory can manage it.
const ArchiveMode iofs.FileMode = 0o666

// Archiver creates backup archives.
type Archiver struct {
	fs       fs.FS
	clock    clock.Clock
	log      logging.Logger
	progress progress.Reporter
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithFS sets the filesystem used for checks, the archive file and chmod.
func WithFS(f fs.FS) Option { return func(a *Archiver) { a.fs = f } }

// WithClock sets the clock that timestamps archive names.
func WithClock(c clock.Clock) Option { return func(a *Archiver) { a.clock = c } }

// WithLogger sets where skipped entries and warnings are reported.
func WithLogger(l logging.Logger) Option { return func(a *Archiver) { a.log = l } }

// WithProgress sets the byte progress reporter.
func WithProgress(p progress.Reporter) Option { return func(a *Archiver) { a.progress = p } }

// New returns an Archiver using the OS filesystem, the wall clock, no
// logging and no progress output unless overridden.
func New(opts ...Option) *Archiver {
	a := &Archiver{
		fs:       fs.New(),
		clock:    clock.WallClock,
		log:      logging.Discard(),
		progress: progress.Nop{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Create archives source into backupDir and returns the absolute path of
// the new archive. Preconditions are checked before any file is created.
// A failure to relax the archive's permissions is logged, not returned.
// Cancelling ctx does not skip the permission change of a written archive.
func (a *Archiver) Create(ctx context.Context, source, backupDir string) (string, error) {
	src, info, err := a.check(source)
	if err != nil {
		return "", errors.Trace(err)
	}

	archivePath, err := filepath.Abs(filepath.Join(backupDir, Name(src, a.clock.Now())))
	if err != nil {
		return "", errors.Annotate(err, "resolving archive path")
	}

	a.log.Debug("creating archive", "source", src, "archive", archivePath)
	if err := a.write(archivePath, src, info); err != nil {
		return "", errors.Trace(err)
	}

	if err := a.fs.Chmod(context.WithoutCancel(ctx), archivePath, ArchiveMode); err != nil {
		a.log.Warn("could not change archive permissions", "archive", archivePath, "err", err)
	}
	return archivePath, nil
}

// Check reports whether source may be archived without writing anything.
func (a *Archiver) Check(source string) error {
	_, _, err := a.check(source)
	return errors.Trace(err)
}

// check resolves source and enforces the preconditions.
func (a *Archiver) check(source string) (string, fs.FileInfo, error) {
	src, err := filepath.Abs(source)
	if err != nil {
		return "", fs.FileInfo{}, errors.Annotatef(err, "resolving %q", source)
	}

	info, err := a.fs.Lstat(src)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return "", fs.FileInfo{}, errors.Annotatef(ErrSourceNotFound, "%q", source)
		}
		return "", fs.FileInfo{}, errors.Annotatef(err, "inspecting %q", source)
	}

	switch {
	case filepath.Dir(src) == src:
		return "", fs.FileInfo{}, errors.Annotatef(ErrWholeSystem, "%q", source)
	case info.IsSymlink():
		return "", fs.FileInfo{}, errors.Annotatef(ErrSymlinkSource, "%q", source)
	case !info.IsRegular() && !info.IsDir():
		return "", fs.FileInfo{}, errors.Errorf("%q is not a regular file or directory", source)
	}
	return src, info, nil
}

// write owns the archive file until it returns. The tar stream, the gzip
// stream and the file are always closed, in that order.
func (a *Archiver) write(archivePath, src string, info fs.FileInfo) (err error) {
	f, err := a.fs.CreateExcl(archivePath, 0o644)
	if err != nil {
		if errors.Is(err, iofs.ErrExist) {
			return errors.Annotatef(ErrArchiveExists, "%s", archivePath)
		}
		return errors.Annotate(err, "creating archive file")
	}

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	defer func() {
		closers := []struct {
			what string
			c    io.Closer
		}{
			{"tar stream", tw},
			{"gzip stream", gz},
			{"archive file", f},
		}
		for _, cl := range closers {
			if cerr := cl.c.Close(); cerr != nil && err == nil {
				err = errors.Annotatef(cerr, "closing %s", cl.what)
			}
		}
	}()

	if info.IsRegular() {
		return a.addSingle(tw, src, info)
	}
	return a.addTree(tw, src, archivePath)
}

func (a *Archiver) addSingle(tw *tar.Writer, src string, info fs.FileInfo) error {
	a.progress.Start(info.Size)
	defer a.progress.Finish()

	n, err := addFile(tw, src, filepath.Base(src))
	if err != nil {
		return errors.Trace(err)
	}
	a.progress.Add(n)
	return nil
}

// addTree sizes the tree first so progress has a total, then walks it again
// in the same order writing every regular file. The archive being written
// is left out when the backup directory lies inside root.
func (a *Archiver) addTree(tw *tar.Writer, root, archivePath string) error {
	var total int64
	warn := func(path, reason string) {
		a.log.Warn("skipping", "path", path, "reason", reason)
	}
	isArchive := selfMatcher(archivePath)
	err := walkFiles(root, warn, func(path string, d iofs.DirEntry) error {
		if isArchive(path, d) {
			a.log.Debug("skipping the archive being written", "path", path)
			return nil
		}
		info, err := d.Info()
		if err != nil {
			// gone since readdir
			return nil
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return errors.Annotatef(err, "sizing %s", root)
	}

	a.progress.Start(total)
	defer a.progress.Finish()

	err = walkFiles(root, nil, func(path string, d iofs.DirEntry) error {
		if isArchive(path, d) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Trace(err)
		}
		n, err := addFile(tw, path, filepath.ToSlash(rel))
		if errors.Is(err, iofs.ErrNotExist) {
			a.log.Warn("file vanished before it could be archived", "path", path)
			return nil
		}
		if err != nil {
			return errors.Trace(err)
		}
		a.progress.Add(n)
		return nil
	})
	return errors.Annotatef(err, "archiving %s", root)
}

// selfMatcher reports whether a walked entry is the archive at archivePath,
// by path or, when the backup directory is reached through a link, by
// identity.
func selfMatcher(archivePath string) func(string, iofs.DirEntry) bool {
	self, err := os.Stat(archivePath)
	return func(path string, d iofs.DirEntry) bool {
		if path == archivePath {
			return true
		}
		if err != nil {
			return false
		}
		info, ierr := d.Info()
		return ierr == nil && os.SameFile(self, info)
	}
}

// addFile streams the regular file at path into tw under name and returns
// the number of content bytes written.
func addFile(tw *tar.Writer, path, name string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return 0, errors.Annotatef(err, "stat %s", path)
	}

	hdr, err := tar.FileInfoHeader(st, "")
	if err != nil {
		return 0, errors.Annotatef(err, "header for %s", path)
	}
	hdr.Name = name

	if err := tw.WriteHeader(hdr); err != nil {
		return 0, errors.Annotatef(err, "writing header for %s", name)
	}
	n, err := io.CopyN(tw, f, hdr.Size)
	if err != nil {
		return n, errors.Annotatef(err, "writing %s", name)
	}
	return n, nil
}
