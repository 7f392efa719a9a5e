package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/cppla/microforum/apperr"
	"github.com/cppla/microforum/models"
	"github.com/cppla/microforum/store"
)

// PostService manages posts. Only the author may change or remove a post.
type PostService struct {
	content store.ContentStore
	users   UserLookup
	log     *zap.Logger
}

// NewPostService creates a PostService over the content store. users confirms
// that a post's author still exists.
func NewPostService(content store.ContentStore, users UserLookup, log *zap.Logger) *PostService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostService{content: content, users: users, log: log.Named("posts")}
}

// ListPosts returns all posts, newest first, with authors resolved.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.content.ListPosts(ctx)
	if err != nil {
		return nil, apperr.InternalError(err)
	}
	return posts, nil
}

// CreatePost stores a post authored by the caller.
func (s *PostService) CreatePost(ctx context.Context, title, content string, caller Identity) (*models.Post, error) {
	if title == "" || content == "" {
		return nil, apperr.ValidationError("title and content are required")
	}
	if err := requireAccount(ctx, s.users, caller); err != nil {
		return nil, err
	}

	post := &models.Post{Title: title, Content: content, AuthorID: caller.UserID}
	if err := s.content.CreatePost(ctx, post); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "", err)
	}

	s.log.Debug("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", caller.UserID))
	return post, nil
}

// UpdatePost overwrites title and content of a post the caller authored.
func (s *PostService) UpdatePost(ctx context.Context, id uint, title, content string, caller Identity) (*models.Post, error) {
	if title == "" || content == "" {
		return nil, apperr.ValidationError("title and content are required")
	}

	post, err := s.ownedPost(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content
	if err := s.content.UpdatePost(ctx, post); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "", err)
	}
	return post, nil
}

// DeletePost removes a post the caller authored. Its comments are kept.
func (s *PostService) DeletePost(ctx context.Context, id uint, caller Identity) error {
	if _, err := s.ownedPost(ctx, id, caller); err != nil {
		return err
	}
	if err := s.content.DeletePost(ctx, id); err != nil {
		return apperr.InternalError(err)
	}
	s.log.Debug("post deleted", zap.Uint("post_id", id), zap.Uint("author_id", caller.UserID))
	return nil
}

func (s *PostService) ownedPost(ctx context.Context, id uint, caller Identity) (*models.Post, error) {
	post, err := s.content.FindPost(ctx, id)
	if err != nil {
		return nil, storeError(err, "post not found")
	}
	if !IsOwner(post, caller) {
		return nil, apperr.ForbiddenError("access denied")
	}
	return post, nil
}
