package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/five82/chirp/internal/app"
	"github.com/five82/chirp/internal/pages"
)

var errNotSignedIn = errors.New("not signed in: run chirp login")

// cli carries global flags and the environment built for the running command.
type cli struct {
	opts   app.Options
	json   bool
	output string
	build  func(app.Options) (*app.Env, error)
	tui    func(context.Context, app.Options) error

	env *app.Env
}

// skipEnv marks commands that wire their own environment.
const skipEnv = "chirp/skip-env"

func newRootCmd() *cobra.Command {
	c := &cli{build: app.Build, tui: app.Run}
	return c.command()
}

func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "chirp",
		Short: "chirp - a terminal client for the chirp social network",
		Long: "chirp reads feeds, profiles and threads, uploads media and publishes posts.\n\n" +
			"Run without a subcommand, or with tui, to open the interactive client.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.tui(cmd.Context(), c.opts)
		},
		Annotations: map[string]string{skipEnv: "true"},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.ConfigPath, "config", "", "config file (default ~/.config/chirp/config.toml)")
	flags.StringVar(&c.opts.Token, "token", "", "session token to use instead of the stored one")
	flags.StringVar(&c.opts.APIURL, "api-url", "", "API base URL override")
	flags.StringVar(&c.opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.BoolVar(&c.json, "json", false, "print results as JSON (same as --output json)")
	flags.StringVarP(&c.output, "output", "o", "text", "output format: text, json or yaml")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.feedCmd(),
		c.latestCmd(),
		c.userCmd(),
		c.postCmd(),
		c.uploadCmd(),
		c.publishCmd(),
		c.likeCmd(true),
		c.likeCmd(false),
		c.followCmd(true),
		c.followCmd(false),
		c.tuiCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipEnv] != "" {
		return nil
	}
	if err := c.checkOutput(); err != nil {
		return err
	}
	env, err := c.build(c.opts)
	if err != nil {
		return err
	}
	c.env = env
	return nil
}

func (c *cli) teardown(*cobra.Command, []string) error {
	if c.env == nil {
		return nil
	}
	err := c.env.Close()
	c.env = nil
	return err
}

func (c *cli) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "tui",
		Short:       "Open the interactive client",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipEnv: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.tui(cmd.Context(), c.opts)
		},
	}
}

// redirectTracker is a navigator that remembers whether a loader sent the
// user to login.
type redirectTracker struct {
	path string
}

func (r *redirectTracker) Goto(path string) {
	r.path = path
}

func (r *redirectTracker) err() error {
	if r.path == pages.LoginPath {
		return errNotSignedIn
	}
	return nil
}

func (c *cli) loaders() (*pages.Loaders, *redirectTracker) {
	nav := &redirectTracker{}
	return c.env.Loaders(nav), nav
}
