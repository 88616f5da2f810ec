package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raoulx24/kback/internal/app"
	"github.com/raoulx24/kback/internal/config"
	"github.com/raoulx24/kback/internal/privilege"
	"github.com/raoulx24/kback/internal/progress"
	"github.com/raoulx24/kback/internal/prompt"
)

type rootOptions struct {
	configPath  string
	listBackups bool
	long        bool
	yes         bool
	schedule    string
	logLevel    string
}

// newRootCommand builds the kback command. geteuid is consulted once,
// before any config is read or file is touched.
func newRootCommand(geteuid func() int) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "kback [source]",
		Short: "Backup and archive a file or folder",
		Long: `kback archives a file or folder into a timestamped .tar.gz file inside the
backup directory configured in ` + config.DefaultPath + ` ([Settings] backup_dir).`,
		Example: `  sudo kback /etc/nginx
  sudo kback --list-backups
  sudo kback --schedule "0 3 * * *" /srv/data`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.listBackups && len(args) == 0 {
				return cmd.Help()
			}
			if err := privilege.Check(geteuid()); err != nil {
				return err
			}

			var confirm prompt.Confirmer = prompt.Survey{}
			if opts.yes || opts.schedule != "" {
				confirm = prompt.Always(true)
			}

			a := app.New(app.App{
				ConfigPath: config.ResolvePath(opts.configPath),
				Confirm:    confirm,
				Progress:   progressFor(cmd.ErrOrStderr()),
				Out:        cmd.OutOrStdout(),
				LogOut:     cmd.ErrOrStderr(),
				LogLevel:   opts.logLevel,
			})

			switch {
			case opts.listBackups:
				return a.List(opts.long)
			case opts.schedule != "":
				ctx, stop := withShutdownSignals(cmd.Context())
				defer stop()
				return a.Schedule(ctx, opts.schedule, args[0])
			default:
				_, err := a.Backup(cmd.Context(), args[0])
				return err
			}
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.listBackups, "list-backups", "b", false, "List backups in the backup directory")
	flags.BoolVarP(&opts.long, "long", "l", false, "With --list-backups, show size and age of each backup")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Answer yes to every prompt")
	flags.StringVar(&opts.schedule, "schedule", "", `Keep running and back up source on this cron schedule (e.g. "0 3 * * *" or "@daily")`)
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides the config file)")

	return cmd
}

func progressFor(w io.Writer) progress.Reporter {
	if f, ok := w.(*os.File); ok {
		return progress.ForTerminal(f)
	}
	return progress.Nop{}
}
