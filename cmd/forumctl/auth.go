package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cppla/microforum/client"
)

func (a *app) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			c, err := a.client()
			if err != nil {
				return err
			}
			msg, err := c.Register(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and save the session token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			saved, err := a.saved()
			if err != nil {
				return err
			}
			base := a.baseURL(saved)
			s := client.NewSession(client.New(base), 0)
			if err := s.Login(ctx, args[0], args[1]); err != nil {
				return err
			}
			f, err := a.tokenFile()
			if err != nil {
				return err
			}
			if err := f.Save(client.SavedSession{BaseURL: base, Username: args[0], Token: s.Token()}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (id %d)\n", args[0], s.UserID())
			return nil
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.tokenFile()
			if err != nil {
				return err
			}
			if err := f.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := a.saved()
			if err != nil {
				return err
			}
			if saved == nil || saved.Token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d) on %s\n", saved.Username, client.TokenUserID(saved.Token), saved.BaseURL)
			return nil
		},
	}
}
