// Package client is a typed HTTP client for the forum API and a session
// state machine built on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cppla/microforum/models"
)

// Client calls the forum REST API. Token, when set, is sent as a bearer token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns a Client for baseURL. Requests use the default transport and
// are bounded only by the caller's context.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates an account and returns the server message.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, "/users/register", credentials{username, password}, &resp)
	return resp.Message, err
}

// Login returns a bearer token for the credentials. It does not set c.Token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/login", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListUsers returns every user.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/users", nil, &users)
	return users, err
}

// UpdateUsername renames user id.
func (c *Client) UpdateUsername(ctx context.Context, id uint, username string) error {
	body := map[string]string{"username": username}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), body, nil)
}

// DeleteUser removes user id.
func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// ListPosts returns all posts, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, http.MethodGet, "/posts", nil, &posts)
	return posts, err
}

// CreatePost publishes a post as the token holder.
func (c *Client) CreatePost(ctx context.Context, title, content string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/posts", postBody{title, content}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces title and content of post id.
func (c *Client) UpdatePost(ctx context.Context, id uint, title, content string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), postBody{title, content}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes post id.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil)
}

// ListComments returns the comments of postID, newest first.
func (c *Client) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/comments/%d", postID), nil, &comments)
	return comments, err
}

// CreateComment comments on postID.
func (c *Client) CreateComment(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	body := struct {
		Content string `json:"content"`
		PostID  uint   `json:"postId"`
	}{content, postID}
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, "/comments", body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes comment id.
func (c *Client) DeleteComment(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", id), nil, nil)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type postBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error marshalling request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleAPIError(resp, respBody)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
