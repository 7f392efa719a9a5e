package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cppla/microforum/models"
)

// State is the macro-state of a Session.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// DefaultStatusTTL is how long a status message stays visible.
const DefaultStatusTTL = 10 * time.Second

// ErrNotAuthenticated is returned by operations that need a logged-in session.
var ErrNotAuthenticated = errors.New("not logged in")

// Session mirrors the web client: a token held in memory, a post list fetched
// once on login, and comments fetched lazily and cached per post.
type Session struct {
	api       *Client
	statusTTL time.Duration

	mu          sync.Mutex
	state       State
	token       string
	posts       []models.Post
	comments    map[uint][]models.Comment
	expanded    map[uint]bool
	status      string
	statusTimer *time.Timer
}

// NewSession creates an unauthenticated session. A zero statusTTL uses DefaultStatusTTL.
func NewSession(api *Client, statusTTL time.Duration) *Session {
	if statusTTL <= 0 {
		statusTTL = DefaultStatusTTL
	}
	return &Session{
		api:       api,
		statusTTL: statusTTL,
		comments:  map[uint][]models.Comment{},
		expanded:  map[uint]bool{},
	}
}

// Register creates an account. The session stays unauthenticated.
func (s *Session) Register(ctx context.Context, username, password string) error {
	msg, err := s.api.Register(ctx, username, password)
	if err != nil {
		return s.fail(err)
	}
	s.setStatus(msg)
	return nil
}

// Login obtains a token and enters the authenticated state.
func (s *Session) Login(ctx context.Context, username, password string) error {
	token, err := s.api.Login(ctx, username, password)
	if err != nil {
		return s.fail(err)
	}
	return s.Resume(ctx, token)
}

// Resume enters the authenticated state with an existing token and fetches
// the post list. A rejected token leaves the session logged out.
func (s *Session) Resume(ctx context.Context, token string) error {
	s.mu.Lock()
	s.resetLocked()
	s.token = token
	s.api.Token = token
	s.state = Authenticated
	s.mu.Unlock()

	posts, err := s.api.ListPosts(ctx)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 403) {
			s.Logout()
		}
		return s.fail(err)
	}
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}

// Logout discards the token and all cached content.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.state = Unauthenticated
	s.token = ""
	s.api.Token = ""
	s.posts = nil
	s.comments = map[uint][]models.Comment{}
	s.expanded = map[uint]bool{}
}

// State reports whether the session holds a token.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// UserID decodes the user id from the token payload. The signature is not
// verified; the value is for display only.
func (s *Session) UserID() uint {
	return TokenUserID(s.Token())
}

// TokenUserID extracts the id claim from token without verifying it. It returns 0 when undecodable.
func TokenUserID(token string) uint {
	if token == "" {
		return 0
	}
	var claims struct {
		UserID uint `json:"id"`
		jwt.RegisteredClaims
	}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return 0
	}
	return claims.UserID
}

// Posts returns a copy of the cached post list.
func (s *Session) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Post(nil), s.posts...)
}

// CreatePost publishes a post and prepends the server's copy to the list.
func (s *Session) CreatePost(ctx context.Context, title, content string) (*models.Post, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	post, err := s.api.CreatePost(ctx, title, content)
	if err != nil {
		return nil, s.fail(err)
	}
	s.mu.Lock()
	s.posts = append([]models.Post{*post}, s.posts...)
	s.mu.Unlock()
	return post, nil
}

// UpdatePost edits a post and replaces the cached entry with the same id.
func (s *Session) UpdatePost(ctx context.Context, id uint, title, content string) (*models.Post, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	post, err := s.api.UpdatePost(ctx, id, title, content)
	if err != nil {
		return nil, s.fail(err)
	}
	s.mu.Lock()
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = *post
		}
	}
	s.mu.Unlock()
	return post, nil
}

// DeletePost removes a post on the server, then from the list.
func (s *Session) DeletePost(ctx context.Context, id uint) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.api.DeletePost(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	s.mu.Unlock()
	return nil
}

// ToggleComments expands or collapses the comments of postID. The first
// expansion fetches them; later toggles use the cache.
func (s *Session) ToggleComments(ctx context.Context, postID uint) (bool, []models.Comment, error) {
	s.mu.Lock()
	if s.expanded[postID] {
		s.expanded[postID] = false
		s.mu.Unlock()
		return false, nil, nil
	}
	cached, ok := s.comments[postID]
	s.mu.Unlock()

	if !ok {
		fetched, err := s.api.ListComments(ctx, postID)
		if err != nil {
			return false, nil, s.fail(err)
		}
		cached = fetched
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[postID] = cached
	s.expanded[postID] = true
	return true, append([]models.Comment(nil), cached...), nil
}

// Comments returns the cached comments of postID and whether they were loaded.
func (s *Session) Comments(postID uint) ([]models.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[postID]
	return append([]models.Comment(nil), c...), ok
}

// AddComment comments on postID and prepends the result to the cache.
func (s *Session) AddComment(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	comment, err := s.api.CreateComment(ctx, postID, content)
	if err != nil {
		return nil, s.fail(err)
	}
	s.mu.Lock()
	s.comments[postID] = append([]models.Comment{*comment}, s.comments[postID]...)
	s.mu.Unlock()
	return comment, nil
}

// DeleteComment removes a comment on the server, then from the cache of postID.
func (s *Session) DeleteComment(ctx context.Context, postID, id uint) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.api.DeleteComment(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	kept := s.comments[postID][:0]
	for _, c := range s.comments[postID] {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if _, ok := s.comments[postID]; ok {
		s.comments[postID] = kept
	}
	s.mu.Unlock()
	return nil
}

// Status returns the current transient status message.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) requireAuth() error {
	if s.State() != Authenticated {
		return s.fail(ErrNotAuthenticated)
	}
	return nil
}

func (s *Session) fail(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		s.setStatus(apiErr.Message)
	} else {
		s.setStatus(err.Error())
	}
	return err
}

func (s *Session) setStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
	if s.statusTimer != nil {
		s.statusTimer.Stop()
	}
	s.statusTimer = time.AfterFunc(s.statusTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.status == msg {
			s.status = ""
		}
	})
}
