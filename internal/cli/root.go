// Package cli provides the gtd command line. Without a subcommand it runs
// the terminal UI.
package cli

import (
	"github.com/spf13/cobra"

	"gtd/internal/app"
	"gtd/internal/ui"
)

// launchTUIFunc is replaced in tests.
var launchTUIFunc = launchTUI

// env resolves the container lazily, after flags are parsed. A container
// passed to NewRootCommand is used as is and never closed here.
type env struct {
	opts  app.Options
	c     *app.Container
	owned bool
}

func (e *env) container() (*app.Container, error) {
	if e.c != nil {
		return e.c, nil
	}
	c, err := app.New(e.opts)
	if err != nil {
		return nil, err
	}
	e.c = c
	e.owned = true
	return c, nil
}

func (e *env) close() error {
	if !e.owned || e.c == nil {
		return nil
	}
	err := e.c.Close()
	e.c = nil
	e.owned = false
	return err
}

// NewRootCommand builds the command tree. c may be nil, in which case the
// container is created from the --config, --db and --ephemeral flags.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	return newRootCommand(&env{c: c}, version)
}

func newRootCommand(e *env, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "gtd",
		Short: "Getting Things Done task manager",
		Long: `gtd keeps a single list of tasks sorted into Inbox, Next actions,
Projects, Waiting and Someday. Run it without arguments for the
interactive view, or use the subcommands for scripting.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			return launchTUIFunc(c)
		},
	}

	root.PersistentFlags().StringVar(&e.opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/gtd/config.toml)")
	root.PersistentFlags().StringVar(&e.opts.DBPath, "db", "", "database file, overrides db_path from the config")
	root.PersistentFlags().BoolVar(&e.opts.Ephemeral, "ephemeral", false, "keep tasks in memory only")

	root.AddCommand(
		newAddCommand(e),
		newListCommand(e),
		newDoneCommand(e),
		newMoveCommand(e),
		newRmCommand(e),
		newEditCommand(e),
		newClearCommand(e),
		newReviewCommand(e),
		newThemeCommand(e),
		newExportCommand(e),
	)
	closeAfterRun(root, e)
	return root
}

// closeAfterRun wraps every RunE so an owned container is closed whether or
// not the command failed.
func closeAfterRun(cmd *cobra.Command, e *env) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if cerr := e.close(); err == nil {
				err = cerr
			}
			return err
		}
	}
	for _, sub := range cmd.Commands() {
		closeAfterRun(sub, e)
	}
}

func launchTUI(c *app.Container) error {
	session := ui.NewSession(c.Store, c.KV, c.Config.App, c.StartList(), c.Logger)
	return ui.Run(session, c.Config)
}
