package main

import (
	"errors"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/raoulx24/kback/internal/app"
	"github.com/raoulx24/kback/internal/archive"
	"github.com/raoulx24/kback/internal/backups"
	"github.com/raoulx24/kback/internal/config"
	"github.com/raoulx24/kback/internal/privilege"
	"github.com/raoulx24/kback/internal/schedule"
)

// Process exit statuses. Scripts rely on these staying stable.
const (
	exitOK                = 0
	exitNotRoot           = 1
	exitConfigDeclined    = 2
	exitConfigHeader      = 3
	exitConfigSection     = 4
	exitConfigOption      = 5
	exitCreateBackupDir   = 6
	exitSymlinkSource     = 7
	exitBackupDirMissing  = 8
	exitSourceNotFound    = 9
	exitWholeSystem       = 10
	exitArchiveExists     = 11
	exitBackupDirDeclined = 12
	exitConfigMalformed   = 13
	exitInvalidSchedule   = 14
	exitFailure           = 15
	exitInterrupted       = 130
)

var exitCodes = []struct {
	err  error
	code int
}{
	{privilege.ErrNotRoot, exitNotRoot},
	{app.ErrConfigDeclined, exitConfigDeclined},
	{config.ErrMissingSectionHeader, exitConfigHeader},
	{config.ErrNoSection, exitConfigSection},
	{config.ErrNoOption, exitConfigOption},
	{app.ErrCreateBackupDir, exitCreateBackupDir},
	{archive.ErrSymlinkSource, exitSymlinkSource},
	{backups.ErrBackupDirMissing, exitBackupDirMissing},
	{archive.ErrSourceNotFound, exitSourceNotFound},
	{archive.ErrWholeSystem, exitWholeSystem},
	{archive.ErrArchiveExists, exitArchiveExists},
	{app.ErrBackupDirDeclined, exitBackupDirDeclined},
	{config.ErrMalformed, exitConfigMalformed},
	{schedule.ErrInvalidSchedule, exitInvalidSchedule},
	{terminal.InterruptErr, exitInterrupted},
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	for _, ec := range exitCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return exitFailure
}
