package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func (c *cli) likeCmd(like bool) *cobra.Command {
	use, short := "like <post-id>", "Like a post"
	if !like {
		use, short = "unlike <post-id>", "Remove a like"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("post", args[0])
			if err != nil {
				return err
			}
			if like {
				err = c.env.Client.Like(cmd.Context(), id)
			} else {
				err = c.env.Client.Unlike(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			return c.print(cmd, map[string]any{"post_id": id, "liked": like}, func(w io.Writer) {
				fmt.Fprintf(w, "%s post %d\n", cmd.Name()+"d", id)
			})
		},
	}
}

func (c *cli) followCmd(follow bool) *cobra.Command {
	use, short := "follow <user-id>", "Follow a user"
	if !follow {
		use, short = "unfollow <user-id>", "Stop following a user"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			if follow {
				err = c.env.Client.Follow(cmd.Context(), id)
			} else {
				err = c.env.Client.Unfollow(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			return c.print(cmd, map[string]any{"user_id": id, "following": follow}, func(w io.Writer) {
				fmt.Fprintf(w, "%s user %d\n", cmd.Name()+"ed", id)
			})
		},
	}
}

func parseID(label, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", label, raw)
	}
	return id, nil
}
