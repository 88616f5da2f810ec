package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/kback/internal/archive"
	"github.com/raoulx24/kback/internal/privilege"
)

func asRoot() int { return 0 }
func asNonRoot() int { return 1000 }

func runRoot(t *testing.T, euid func() int, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(euid)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) (cfgPath, backupDir string) {
	t.Helper()
	root := t.TempDir()
	backupDir = filepath.Join(root, "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0o755))
	cfgPath = filepath.Join(root, "kback.conf")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[Settings]\nbackup_dir = "+backupDir+"\n"), 0o644))
	return cfgPath, backupDir
}

func TestRoot_NoArgsShowsHelp(t *testing.T) {
	out, err := runRoot(t, asNonRoot)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "--list-backups")
}

func TestRoot_RequiresRoot(t *testing.T) {
	_, err := runRoot(t, asNonRoot, "/etc")
	assert.ErrorIs(t, err, privilege.ErrNotRoot)
	assert.Equal(t, exitNotRoot, exitCode(err))
}

func TestRoot_BackupAndList(t *testing.T) {
	cfgPath, backupDir := writeTestConfig(t)
	src := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	out, err := runRoot(t, asRoot, "--config", cfgPath, "--yes", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Backup successful! Archive created at: "+backupDir)

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, _, ok := archive.ParseName(entries[0].Name(), time.Local)
	assert.True(t, ok)

	out, err = runRoot(t, asRoot, "-c", cfgPath, "-b")
	require.NoError(t, err)
	assert.Contains(t, out, "Backups available:\n"+entries[0].Name())
}

func TestRoot_ListFromEnvConfig(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)
	t.Setenv("KBACK_CONFIG", cfgPath)

	out, err := runRoot(t, asRoot, "--list-backups")
	require.NoError(t, err)
	assert.Contains(t, out, "There are no backups on this system.")
}

func TestRoot_SymlinkSource(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target"), nil, 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "target"), filepath.Join(dir, "link")))

	_, err := runRoot(t, asRoot, "-c", cfgPath, "-y", filepath.Join(dir, "link"))
	assert.Equal(t, exitSymlinkSource, exitCode(err))
}

func TestRoot_TooManyArgs(t *testing.T) {
	_, err := runRoot(t, asRoot, "a", "b")
	assert.Error(t, err)
}
