package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cppla/microforum/client"
)

const defaultServer = "http://localhost:5000"

// app holds the flags shared by every subcommand.
type app struct {
	server      string
	sessionPath string
	timeout     time.Duration
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "forumctl [command] [flags]",
		Short:         "forumctl: read and write the forum from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.server, "server", os.Getenv("FORUM_SERVER"), "API base URL (default: saved session or "+defaultServer+")")
	root.PersistentFlags().StringVar(&a.sessionPath, "session-file", "", "session file (default: user config dir)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "overall deadline per command, 0 for none")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.postsCmd(),
		a.commentsCmd(),
		a.usersCmd(),
	)
	return root
}

func (a *app) tokenFile() (*client.TokenFile, error) {
	if a.sessionPath != "" {
		return &client.TokenFile{Path: a.sessionPath}, nil
	}
	return client.DefaultTokenFile()
}

func (a *app) saved() (*client.SavedSession, error) {
	f, err := a.tokenFile()
	if err != nil {
		return nil, err
	}
	return f.Load()
}

func (a *app) baseURL(saved *client.SavedSession) string {
	switch {
	case a.server != "":
		return a.server
	case saved != nil && saved.BaseURL != "":
		return saved.BaseURL
	default:
		return defaultServer
	}
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if a.timeout > 0 {
		return context.WithTimeout(cmd.Context(), a.timeout)
	}
	return context.WithCancel(cmd.Context())
}

// client returns an API client carrying the saved token, if any.
func (a *app) client() (*client.Client, error) {
	saved, err := a.saved()
	if err != nil {
		return nil, err
	}
	c := client.New(a.baseURL(saved))
	if saved != nil {
		c.Token = saved.Token
	}
	return c, nil
}

// session resumes the saved login. It fails when nobody is logged in.
func (a *app) session(ctx context.Context) (*client.Session, error) {
	saved, err := a.saved()
	if err != nil {
		return nil, err
	}
	if saved == nil || saved.Token == "" {
		return nil, fmt.Errorf("not logged in, run `forumctl login` first")
	}
	s := client.NewSession(client.New(a.baseURL(saved)), 0)
	if err := s.Resume(ctx, saved.Token); err != nil {
		return nil, err
	}
	return s, nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
