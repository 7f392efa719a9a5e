package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cppla/microforum/models"
)

func (a *app) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"post"},
		Short:   "List and manage posts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			c, err := a.client()
			if err != nil {
				return err
			}
			posts, err := c.ListPosts(ctx)
			if err != nil {
				return err
			}
			renderPosts(cmd.OutOrStdout(), posts)
			return nil
		},
	}

	var title, content string
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			post, err := s.CreatePost(ctx, title, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created post %d\n", post.ID)
			return nil
		},
	}
	create.Flags().StringVarP(&title, "title", "t", "", "post title")
	create.Flags().StringVarP(&content, "content", "c", "", "post content")

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title and content of your post",
		Args:  cobra.ExactArgs(1),
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
			post, err := s.UpdatePost(ctx, id, title, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated post %d\n", post.ID)
			return nil
		},
	}
	edit.Flags().StringVarP(&title, "title", "t", "", "new title")
	edit.Flags().StringVarP(&content, "content", "c", "", "new content")

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete your post",
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
			if err := s.DeletePost(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, create, edit, del)
	return cmd
}

func authorName(a *models.Author) string {
	if a == nil {
		return "[deleted]"
	}
	return a.Username
}

func renderPosts(w io.Writer, posts []models.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title", "Author", "Created"})
	table.SetAutoWrapText(false)
	for _, p := range posts {
		table.Append([]string{strconv.FormatUint(uint64(p.ID), 10), p.Title, authorName(p.Author), formatTime(p.CreatedAt)})
	}
	table.Render()
}
