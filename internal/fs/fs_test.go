package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_TransientThenSuccess(t *testing.T) {
	calls := 0
	err := retry(context.Background(), "op", func() error {
		calls++
		if calls < 2 {
			return syscall.EBUSY
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_PermanentErrorStops(t *testing.T) {
	calls := 0
	err := retry(context.Background(), "chmod", func() error {
		calls++
		return os.ErrPermission
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "chmod failed permanently")
	assert.Equal(t, 1, calls)
}

func TestRetry_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry(ctx, "op", func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(syscall.EAGAIN))
	assert.True(t, isTransient(&os.PathError{Op: "chmod", Path: "/x", Err: syscall.EBUSY}))
	assert.False(t, isTransient(errors.New("boom")))
}

func TestOSFS_LstatDoesNotFollowLinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	fsys := New()

	info, err := fsys.Lstat(link)
	require.NoError(t, err)
	assert.True(t, info.IsSymlink())
	assert.False(t, info.IsRegular())

	info, err = fsys.Lstat(target)
	require.NoError(t, err)
	assert.True(t, info.IsRegular())
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "target.txt", info.Name)
}

func TestOSFS_ReadDirSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.tar.gz", "a.tar.gz", "c.tar.gz"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	entries, err := New().ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.tar.gz", entries[0].Name)
	assert.Equal(t, filepath.Join(dir, "c.tar.gz"), entries[2].Path)
}

func TestOSFS_MkdirAllAndChmod(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "backups")
	fsys := New()
	require.NoError(t, fsys.MkdirAll(dir))

	file := filepath.Join(dir, "a.tar.gz")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	require.NoError(t, fsys.Chmod(context.Background(), file, 0o666))

	st, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o666), st.Mode().Perm())
}

func TestOSFS_CreateExclRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.tar.gz")
	fsys := New()

	w, err := fsys.CreateExcl(path, 0o644)
	require.NoError(t, err)
	_, err = w.Write([]byte("first"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = fsys.CreateExcl(path, 0o644)
	assert.ErrorIs(t, err, iofs.ErrExist)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}
