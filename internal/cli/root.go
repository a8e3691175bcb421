package cli

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gallerybin/internal/buildinfo"
	"github.com/dmitrijs2005/gallerybin/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	envFile    string
	overrides  config.Overrides
}

// Execute runs the command line in args against the media tree in fsys.
func Execute(ctx context.Context, fsys afero.Fs, in io.Reader, out io.Writer, args []string) error {
	var app *App
	defer func() {
		if app != nil {
			_ = app.Close()
		}
	}()

	cmd := newRootCommand(fsys, in, out, &app)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(fsys afero.Fs, in io.Reader, out io.Writer, app **App) *cobra.Command {
	var f rootFlags

	root := &cobra.Command{
		Use:           "gallerybin",
		Short:         "Photo gallery with display-date grouping, a recycle bin and undo",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "version", "help":
				return nil
			}
			cfg, err := config.Load(f.configPath, f.envFile, f.overrides)
			if err != nil {
				return err
			}
			a, err := NewApp(cmd.Context(), cfg, fsys, in, out)
			if err != nil {
				return err
			}
			*app = a
			a.Start(cmd.Context())
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to a JSON config file")
	pf.StringVar(&f.envFile, "env-file", "", "path to a .env file")
	pf.StringVar(&f.overrides.DBPath, "db", "", "recycle bin database path")
	pf.StringVar(&f.overrides.MediaRoot, "media", "", "media library root directory")
	pf.StringVar(&f.overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&f.overrides.LogBackend, "log-backend", "", "logging backend (slog, zap)")
	pf.StringVar(&f.overrides.LogFormat, "log-format", "", "log format (text, json)")

	noArgs := func(use, short string, run func(*App, context.Context) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(*app, cmd.Context())
			},
		}
	}
	oneArg := func(use, short string, run func(*App, context.Context, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(*app, cmd.Context(), args[0])
			},
		}
	}

	bin := &cobra.Command{
		Use:   "bin",
		Short: "Manage the recycle bin",
	}
	bin.AddCommand(
		noArgs("list", "List items in the recycle bin", (*App).BinList),
		oneArg("restore <media-id>", "Restore an item", (*App).BinRestore),
		oneArg("purge <media-id>", "Delete an item permanently", (*App).BinPurge),
		noArgs("sweep", "Purge expired items", (*App).BinSweep),
		noArgs("empty", "Purge every item", (*App).BinEmpty),
	)

	root.AddCommand(
		noArgs("buckets", "List display dates with item counts", (*App).Buckets),
		oneArg("date <yyyy-mm-dd>", "List items shown on a date", (*App).Date),
		noArgs("today", "List items visible today", (*App).Today),
		noArgs("list", "List items with positions", (*App).List),
		oneArg("delete <media-id>", "Move an item to the recycle bin", (*App).Delete),
		oneArg("later <media-id>", "Hide an item until a later date", (*App).Later),
		noArgs("stats", "Show recycle bin counters", (*App).Stats),
		noArgs("shell", "Start the interactive shell", (*App).Shell),
		bin,
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
	)

	return root
}
