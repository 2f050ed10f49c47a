package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

var errUnavailable = errors.New("unavailable, see the log for details")

func (c *cli) feedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Show posts from people you follow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaders, nav := c.loaders()
			data := loaders.Home(cmd.Context())
			if err := nav.err(); err != nil {
				return err
			}
			if !data.HasFeed {
				return fmt.Errorf("feed %w", errUnavailable)
			}
			return c.print(cmd, data.Feed, func(w io.Writer) {
				c.writePosts(w, data.Feed)
			})
		},
	}
}

func (c *cli) latestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the newest posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaders, nav := c.loaders()
			data := loaders.Latest(cmd.Context())
			if err := nav.err(); err != nil {
				return err
			}
			if !data.HasPosts {
				return fmt.Errorf("latest posts %w", errUnavailable)
			}
			return c.print(cmd, data.Posts, func(w io.Writer) {
				c.writePosts(w, data.Posts)
			})
		},
	}
}

func (c *cli) userCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user <slug>",
		Short: "Show a profile and its posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaders, nav := c.loaders()
			data := loaders.UserPage(cmd.Context(), args[0])
			if err := nav.err(); err != nil {
				return err
			}
			if data.User == nil {
				return fmt.Errorf("user %q not found", args[0])
			}
			return c.print(cmd, data, func(w io.Writer) {
				writeUser(w, data.User)
				fmt.Fprintln(w)
				if !data.HasPosts {
					fmt.Fprintln(w, styles.muted.Render("posts unavailable"))
					return
				}
				c.writePosts(w, data.Posts)
			})
		},
	}
}

func (c *cli) postCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <username> <id>",
		Short: "Show a post and its comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[1])
			}
			loaders, nav := c.loaders()
			data := loaders.PostPage(cmd.Context(), args[0], id)
			if err := nav.err(); err != nil {
				return err
			}
			if data.Post() == nil {
				return fmt.Errorf("post %s/%d not found", args[0], id)
			}
			return c.print(cmd, data, func(w io.Writer) {
				c.writePosts(w, data.Posts)
				if !data.HasComments {
					fmt.Fprintln(w, styles.muted.Render("comments unavailable"))
					return
				}
				c.writePosts(w, data.Comments)
			})
		},
	}
}
