package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	jujuerrors "github.com/juju/errors"
	"github.com/stretchr/testify/assert"

	"github.com/raoulx24/kback/internal/app"
	"github.com/raoulx24/kback/internal/archive"
	"github.com/raoulx24/kback/internal/backups"
	"github.com/raoulx24/kback/internal/config"
	"github.com/raoulx24/kback/internal/privilege"
	"github.com/raoulx24/kback/internal/schedule"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{privilege.Check(1000), exitNotRoot},
		{app.ErrConfigDeclined, exitConfigDeclined},
		{fmt.Errorf("/etc/kback/kback.conf: %w", config.ErrMissingSectionHeader), exitConfigHeader},
		{jujuerrors.Trace(fmt.Errorf("x: %w", config.ErrNoSection)), exitConfigSection},
		{fmt.Errorf("x: %w", config.ErrNoOption), exitConfigOption},
		{jujuerrors.Annotate(app.ErrCreateBackupDir, "/var/backups"), exitCreateBackupDir},
		{jujuerrors.Annotate(archive.ErrSymlinkSource, "/tmp/link"), exitSymlinkSource},
		{backups.ErrBackupDirMissing, exitBackupDirMissing},
		{jujuerrors.Trace(archive.ErrSourceNotFound), exitSourceNotFound},
		{archive.ErrWholeSystem, exitWholeSystem},
		{archive.ErrArchiveExists, exitArchiveExists},
		{app.ErrBackupDirDeclined, exitBackupDirDeclined},
		{fmt.Errorf("x: %w", config.ErrMalformed), exitConfigMalformed},
		{schedule.ErrInvalidSchedule, exitInvalidSchedule},
		{fmt.Errorf("prompt failed: %w", terminal.InterruptErr), exitInterrupted},
		{errors.New("disk full"), exitFailure},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), "%v", tt.err)
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	seen := map[int]bool{exitOK: true, exitFailure: true}
	for _, ec := range exitCodes {
		assert.False(t, seen[ec.code], "exit code %d reused", ec.code)
		seen[ec.code] = true
	}
}
