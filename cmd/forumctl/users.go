package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cppla/microforum/models"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "List and manage users",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			c, err := a.client()
			if err != nil {
				return err
			}
			users, err := c.ListUsers(ctx)
			if err != nil {
				return err
			}
			renderUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <username>",
		Short: "Change a username",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.UpdateUsername(ctx, id, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "User updated")
			return nil
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeleteUser(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "User deleted")
			return nil
		},
	}

	cmd.AddCommand(list, rename, del)
	return cmd
}

func renderUsers(w io.Writer, users []models.User) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Username", "Joined"})
	for _, u := range users {
		table.Append([]string{strconv.FormatUint(uint64(u.ID), 10), u.Username, formatTime(u.CreatedAt)})
	}
	table.Render()
}
