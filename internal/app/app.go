// Package app wires configuration, prompts and the archiver into the
// operations exposed by the kback command.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/raoulx24/kback/internal/archive"
	"github.com/raoulx24/kback/internal/backups"
	"github.com/raoulx24/kback/internal/config"
	"github.com/raoulx24/kback/internal/fs"
	"github.com/raoulx24/kback/internal/logging"
	"github.com/raoulx24/kback/internal/mailbox"
	"github.com/raoulx24/kback/internal/progress"
	"github.com/raoulx24/kback/internal/prompt"
	"github.com/raoulx24/kback/internal/schedule"
	"github.com/raoulx24/kback/internal/worker"
)

const (
	ErrConfigDeclined    = errors.ConstError("exiting due to missing config file")
	ErrCreateBackupDir   = errors.ConstError("failed to create backup directory")
	ErrBackupDirDeclined = errors.ConstError("backup directory was not created")
)

// App holds everything one kback invocation needs. Zero fields are filled
// with defaults by New.
type App struct {
	ConfigPath string
	Confirm    prompt.Confirmer
	FS         fs.FS
	Clock      clock.Clock
	Progress   progress.Reporter

	// Out receives user-facing results, LogOut the log stream.
	Out    io.Writer
	LogOut io.Writer
	Log    *log.Logger

	// LogLevel, when set, wins over the config file.
	LogLevel string
}

// New fills in defaults for every unset field.
func New(a App) *App {
	if a.ConfigPath == "" {
		a.ConfigPath = config.ResolvePath("")
	}
	if a.Confirm == nil {
		a.Confirm = prompt.Survey{}
	}
	if a.FS == nil {
		a.FS = fs.New()
	}
	if a.Clock == nil {
		a.Clock = clock.WallClock
	}
	if a.Progress == nil {
		a.Progress = progress.Nop{}
	}
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.LogOut == nil {
		a.LogOut = os.Stderr
	}
	if a.Log == nil {
		a.Log = logging.New(a.LogOut, logging.Options{Level: a.LogLevel})
	}
	return &a
}

// Backup archives source into the configured backup directory, creating the
// directory after confirmation, and returns the archive path.
func (a *App) Backup(ctx context.Context, source string) (string, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return "", errors.Trace(err)
	}
	if err := a.ensureBackupDir(cfg.BackupDir()); err != nil {
		return "", errors.Trace(err)
	}

	path, err := a.archiver(a.Progress).Create(ctx, source, cfg.BackupDir())
	if err != nil {
		return "", errors.Trace(err)
	}

	fmt.Fprintln(a.Out, color.GreenString("Backup successful! Archive created at: %s", path))
	return path, nil
}

// List prints the content of the backup directory. With long set, size and
// age are shown next to each name.
func (a *App) List(long bool) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return errors.Trace(err)
	}

	entries, err := backups.List(a.FS, cfg.BackupDir())
	if err != nil {
		return errors.Trace(err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.Out, "There are no backups on this system.")
		return nil
	}

	fmt.Fprintln(a.Out, "Backups available:")
	now := a.Clock.Now()
	for _, e := range entries {
		if !long {
			fmt.Fprintln(a.Out, e.Name)
			continue
		}
		when := e.ModTime
		if e.Managed() {
			when = e.Timestamp
		}
		fmt.Fprintf(a.Out, "%-48s %10s  %s\n", e.Name, humanize.IBytes(uint64(e.Size)), humanize.RelTime(when, now, "ago", "from now"))
	}
	return nil
}

// Schedule archives source on every tick of the cron expression expr
// until ctx is done.
func (a *App) Schedule(ctx context.Context, expr, source string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return errors.Trace(err)
	}
	if _, err := schedule.Parse(expr); err != nil {
		return errors.Trace(err)
	}
	if err := a.ensureBackupDir(cfg.BackupDir()); err != nil {
		return errors.Trace(err)
	}

	arch := a.archiver(progress.Nop{})
	if err := arch.Check(source); err != nil {
		return errors.Trace(err)
	}

	mb := mailbox.New[worker.Job]()
	w := worker.New(cfg.BackupDir(), arch, a.Log, a.Clock, mb)
	s, err := schedule.New(expr, source, w, mb, a.Log)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(s.Run(ctx))
}

func (a *App) archiver(p progress.Reporter) *archive.Archiver {
	return archive.New(
		archive.WithFS(a.FS),
		archive.WithClock(a.Clock),
		archive.WithLogger(a.Log),
		archive.WithProgress(p),
	)
}

// loadConfig reads the config file, offering the default backup directory
// when the file is missing, and applies its logging settings.
func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.ConfigPath)
	switch {
	case errors.Is(err, config.ErrNotFound):
		a.Log.Warn("the config file for kback does not exist", "path", a.ConfigPath)
		a.Log.Warn("the default location for backups is " + config.DefaultBackupDir + ", if this is not intended please reinstall kback")
		ok, perr := a.Confirm.Confirm("Do you want to continue?")
		if perr != nil {
			return nil, errors.Trace(perr)
		}
		if !ok {
			return nil, ErrConfigDeclined
		}
		cfg = config.Default()
	case err != nil:
		return nil, err
	}

	opts := logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if a.LogLevel != "" {
		opts.Level = a.LogLevel
	}
	logging.Apply(a.Log, a.LogOut, opts)
	return cfg, nil
}

// ensureBackupDir makes sure dir exists, asking before creating it.
func (a *App) ensureBackupDir(dir string) error {
	if info, err := a.FS.Stat(dir); err == nil && info.IsDir() {
		return nil
	}

	a.Log.Error("the backup directory does not exist", "dir", dir)
	ok, err := a.Confirm.Confirm("Would you like to create it?")
	if err != nil {
		return errors.Trace(err)
	}
	if !ok {
		return errors.Annotatef(ErrBackupDirDeclined, "%q", dir)
	}

	if err := a.FS.MkdirAll(dir); err != nil {
		return errors.Annotatef(ErrCreateBackupDir, "%q: %v", dir, err)
	}
	a.Log.Info("backup directory created", "dir", dir)
	return nil
}
