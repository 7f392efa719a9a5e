package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cppla/microforum/models"
)

func (a *app) commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment"},
		Short:   "List and manage comments",
	}

	list := &cobra.Command{
		Use:   "list <post-id>",
		Short: "List the comments of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			c, err := a.client()
			if err != nil {
				return err
			}
			comments, err := c.ListComments(ctx, postID)
			if err != nil {
				return err
			}
			renderComments(cmd.OutOrStdout(), comments)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <post-id> <content...>",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			comment, err := s.AddComment(ctx, postID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created comment %d\n", comment.ID)
			return nil
		},
	}

	del := &cobra.Command{
		Use:     "delete <comment-id>",
		Aliases: []string{"rm"},
		Short:   "Delete your comment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			if err := s.DeleteComment(ctx, 0, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted comment %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

func renderComments(w io.Writer, comments []models.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Author", "Comment", "Created"})
	table.SetAutoWrapText(false)
	for _, c := range comments {
		table.Append([]string{strconv.FormatUint(uint64(c.ID), 10), authorName(c.Author), c.Content, formatTime(c.CreatedAt)})
	}
	table.Render()
}
