// Package config loads the kback configuration file.
package config

const (
	DefaultPath      = "/etc/kback/kback.conf"
	DefaultBackupDir = "/var/backups"

	SettingsSection = "Settings"
	BackupDirKey    = "backup_dir"
	LoggingSection  = "Logging"
)

type Config struct {
	Settings SettingsConfig `ini:"Settings" yaml:"settings"`
	Logging  LoggingConfig  `ini:"Logging" yaml:"logging"`
}

type SettingsConfig struct {
	BackupDir string `ini:"backup_dir" yaml:"backup_dir"`
}

type LoggingConfig struct {
	Level  string `ini:"level" yaml:"level"`   // "info", "debug", etc.
	Format string `ini:"format" yaml:"format"` // "text", "json", "logfmt"
}

// Default is the configuration used when no file exists and the operator
// accepts the fallback.
func Default() *Config {
	return &Config{
		Settings: SettingsConfig{BackupDir: DefaultBackupDir},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

// BackupDir returns the resolved backup directory.
func (c *Config) BackupDir() string {
	return c.Settings.BackupDir
}
