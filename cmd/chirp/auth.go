package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/chirp/internal/api"
)

func (c *cli) loginCmd() *cobra.Command {
	var creds api.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in with a username and password. Missing values are read from
standard input, one per line.

Examples:
  chirp login --username ana
  printf 'ana\nsecret\n' | chirp login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if err := prompt(in, &creds.Username); err != nil {
				return fmt.Errorf("read username: %w", err)
			}
			if err := prompt(in, &creds.Password); err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			token, err := c.env.Client.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			if err := c.env.Credentials.Save(token); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			return c.print(cmd, map[string]string{"username": creds.Username}, func(w io.Writer) {
				fmt.Fprintf(w, "%s signed in as @%s\n", styles.ok.Render("✓"), creds.Username)
			})
		},
	}
	cmd.Flags().StringVar(&creds.Username, "username", "", "username")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password (read from stdin when omitted)")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var reg api.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if err := prompt(in, &reg.Password); err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			token, err := c.env.Client.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			if err := c.env.Credentials.Save(token); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			return c.print(cmd, map[string]string{"username": reg.Username}, func(w io.Writer) {
				fmt.Fprintf(w, "%s registered @%s\n", styles.ok.Render("✓"), reg.Username)
			})
		},
	}
	cmd.Flags().StringVar(&reg.Realname, "realname", "", "display name")
	cmd.Flags().StringVar(&reg.Username, "username", "", "username")
	cmd.Flags().StringVar(&reg.Password, "password", "", "password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.env.Credentials.Clear(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			return c.print(cmd, map[string]bool{"signed_out": true}, func(w io.Writer) {
				fmt.Fprintln(w, "signed out")
			})
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaders, nav := c.loaders()
			data := loaders.Layout(cmd.Context(), "/")
			if err := nav.err(); err != nil {
				return err
			}
			return c.print(cmd, data.User, func(w io.Writer) {
				writeUser(w, data.User)
			})
		},
	}
}

// prompt fills an empty *dst with the next line of in.
func prompt(in *bufio.Reader, dst *string) error {
	if strings.TrimSpace(*dst) != "" {
		return nil
	}
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return err
	}
	*dst = strings.TrimRight(line, "\r\n")
	if *dst == "" {
		return fmt.Errorf("empty value")
	}
	return nil
}
