package config

import "errors"

var (
	ErrNotFound             = errors.New("config file does not exist")
	ErrMissingSectionHeader = errors.New("config file is missing section headers")
	ErrNoSection            = errors.New("config file does not contain the [" + SettingsSection + "] section")
	ErrNoOption             = errors.New("config file does not contain the " + BackupDirKey + " option")
	ErrMalformed            = errors.New("config file cannot be parsed")
)
