package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cppla/microforum/config"
	"github.com/cppla/microforum/routes"
)

// =============================================================================
// Test Helpers
// =============================================================================

type testServer struct {
	*httptest.Server
	commentFetches atomic.Int32
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.AppConfig{
		JWTSecret:      "this-is-a-test-secret-with-32-bytes!",
		TokenTTL:       time.Hour,
		BcryptCost:     4,
		AllowedOrigins: []string{"*"},
		GinMode:        "test",
		LogLevel:       "silent",
		DBDriver:       "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "client.db"),
	}
	db, err := config.OpenDatabase(cfg)
	require.NoError(t, err)
	deps := routes.NewDeps(cfg, db, nil)
	deps.Logger = zap.NewNop()
	router := routes.SetupRouter(deps)

	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/comments/") {
			ts.commentFetches.Add(1)
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func loggedIn(t *testing.T, ts *testServer, name string) *Session {
	t.Helper()
	ctx := context.Background()
	s := NewSession(New(ts.URL), time.Minute)
	require.NoError(t, s.Register(ctx, name, name+"-pw"))
	require.NoError(t, s.Login(ctx, name, name+"-pw"))
	return s
}

// =============================================================================
// Session
// =============================================================================

func TestSession_LoginLogout(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	s := NewSession(New(ts.URL), time.Minute)
	assert.Equal(t, Unauthenticated, s.State())

	require.NoError(t, s.Register(ctx, "alice", "pw"))
	assert.Equal(t, "User created", s.Status())
	assert.Equal(t, Unauthenticated, s.State())

	require.NoError(t, s.Login(ctx, "alice", "pw"))
	assert.Equal(t, Authenticated, s.State())
	assert.NotZero(t, s.UserID())
	assert.Empty(t, s.Posts())

	s.Logout()
	assert.Equal(t, Unauthenticated, s.State())
	assert.Empty(t, s.Token())
	assert.Zero(t, s.UserID())
}

func TestSession_PostLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	s := loggedIn(t, ts, "alice")

	first, err := s.CreatePost(ctx, "first", "one")
	require.NoError(t, err)
	second, err := s.CreatePost(ctx, "second", "two")
	require.NoError(t, err)
	assert.Equal(t, s.UserID(), second.AuthorID)

	posts := s.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)

	_, err = s.UpdatePost(ctx, first.ID, "first!", "one!")
	require.NoError(t, err)
	posts = s.Posts()
	assert.Equal(t, "first!", posts[1].Title)

	require.NoError(t, s.DeletePost(ctx, second.ID))
	posts = s.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, first.ID, posts[0].ID)
}

func TestSession_NonAuthorUpdateKeepsPost(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	alice := loggedIn(t, ts, "alice")
	bob := loggedIn(t, ts, "bob")

	post, err := alice.CreatePost(ctx, "T", "C")
	require.NoError(t, err)

	_, err = bob.UpdatePost(ctx, post.ID, "X", "Y")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "access denied", bob.Status())

	posts, err := New(ts.URL).ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "T", posts[0].Title)
}

func TestSession_CommentsAreFetchedLazilyAndCached(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	alice := loggedIn(t, ts, "alice")
	post, err := alice.CreatePost(ctx, "T", "C")
	require.NoError(t, err)

	_, loaded := alice.Comments(post.ID)
	assert.False(t, loaded)
	assert.Zero(t, ts.commentFetches.Load())

	expanded, comments, err := alice.ToggleComments(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, expanded)
	assert.Empty(t, comments)
	assert.EqualValues(t, 1, ts.commentFetches.Load())

	expanded, _, err = alice.ToggleComments(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, expanded)

	c1, err := alice.AddComment(ctx, post.ID, "first")
	require.NoError(t, err)
	c2, err := alice.AddComment(ctx, post.ID, "second")
	require.NoError(t, err)

	expanded, comments, err = alice.ToggleComments(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, expanded)
	require.Len(t, comments, 2)
	assert.Equal(t, c2.ID, comments[0].ID)
	assert.EqualValues(t, 1, ts.commentFetches.Load())

	require.NoError(t, alice.DeleteComment(ctx, post.ID, c1.ID))
	comments, _ = alice.Comments(post.ID)
	require.Len(t, comments, 1)
	assert.Equal(t, c2.ID, comments[0].ID)
}

func TestSession_RequiresLogin(t *testing.T) {
	ts := newTestServer(t)
	s := NewSession(New(ts.URL), time.Minute)

	_, err := s.CreatePost(context.Background(), "T", "C")

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, ErrNotAuthenticated.Error(), s.Status())
}

func TestSession_ResumeWithRejectedToken(t *testing.T) {
	ts := newTestServer(t)
	s := NewSession(New(ts.URL), time.Minute)

	err := s.Resume(context.Background(), "garbage")
	require.NoError(t, err, "GET /posts is public")

	_, err = s.CreatePost(context.Background(), "T", "C")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestSession_StatusClears(t *testing.T) {
	ts := newTestServer(t)
	s := NewSession(New(ts.URL), 50*time.Millisecond)
	require.NoError(t, s.Register(context.Background(), "alice", "pw"))

	err := s.Login(context.Background(), "alice", "wrong")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid password", s.Status())
	assert.Equal(t, Unauthenticated, s.State())
	assert.Eventually(t, func() bool { return s.Status() == "" }, 2*time.Second, 10*time.Millisecond)
}

// =============================================================================
// Client
// =============================================================================

func TestClient_Users(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	s := loggedIn(t, ts, "alice")
	c := New(ts.URL)
	c.Token = s.Token()

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, s.UserID(), users[0].ID)

	require.NoError(t, c.UpdateUsername(ctx, users[0].ID, "alicia"))
	users, err = c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alicia", users[0].Username)

	require.NoError(t, c.DeleteUser(ctx, users[0].ID))
}

func TestClient_Unauthorized(t *testing.T) {
	ts := newTestServer(t)

	_, err := New(ts.URL).ListUsers(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Code/100)
}

func TestNew_UsesTransportDefaults(t *testing.T) {
	c := New("http://localhost:5000/")

	assert.Equal(t, "http://localhost:5000", c.BaseURL)
	require.NotNil(t, c.HTTP)
	assert.Zero(t, c.HTTP.Timeout)
	assert.Nil(t, c.HTTP.Transport)
}

func TestTokenUserID_Garbage(t *testing.T) {
	assert.Zero(t, TokenUserID("not-a-token"))
	assert.Zero(t, TokenUserID(""))
}

// =============================================================================
// TokenFile
// =============================================================================

func TestTokenFile(t *testing.T) {
	f := &TokenFile{Path: filepath.Join(t.TempDir(), "nested", "session.json")}

	saved, err := f.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)

	require.NoError(t, f.Save(SavedSession{BaseURL: "http://localhost:5000", Username: "alice", Token: "tok"}))
	saved, err = f.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "tok", saved.Token)
	assert.Equal(t, "alice", saved.Username)

	require.NoError(t, f.Clear())
	require.NoError(t, f.Clear())
	saved, err = f.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)
}
