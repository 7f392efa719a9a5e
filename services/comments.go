package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/cppla/microforum/apperr"
	"github.com/cppla/microforum/models"
	"github.com/cppla/microforum/store"
)

// CommentService manages comments scoped to a post id.
type CommentService struct {
	content store.ContentStore
	users   UserLookup
	log     *zap.Logger
}

// NewCommentService creates a CommentService over the content store.
func NewCommentService(content store.ContentStore, users UserLookup, log *zap.Logger) *CommentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommentService{content: content, users: users, log: log.Named("comments")}
}

// ListComments returns the comments of postID, newest first. Unknown posts yield an empty list.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if postID == 0 {
		return []models.Comment{}, nil
	}
	comments, err := s.content.ListComments(ctx, postID)
	if err != nil {
		return nil, apperr.InternalError(err)
	}
	return comments, nil
}

// CreateComment stores a comment by the caller. The post is not required to exist.
func (s *CommentService) CreateComment(ctx context.Context, content string, postID uint, caller Identity) (*models.Comment, error) {
	if content == "" || postID == 0 {
		return nil, apperr.ValidationError("content and postId are required")
	}
	if err := requireAccount(ctx, s.users, caller); err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, PostID: postID, AuthorID: caller.UserID}
	if err := s.content.CreateComment(ctx, comment); err != nil {
		return nil, apperr.InternalError(err)
	}
	return comment, nil
}

// DeleteComment removes a comment the caller wrote.
func (s *CommentService) DeleteComment(ctx context.Context, id uint, caller Identity) error {
	comment, err := s.content.FindComment(ctx, id)
	if err != nil {
		return storeError(err, "comment not found")
	}
	if !IsOwner(comment, caller) {
		return apperr.ForbiddenError("no permission")
	}
	if err := s.content.DeleteComment(ctx, id); err != nil {
		return apperr.InternalError(err)
	}
	s.log.Debug("comment deleted", zap.Uint("comment_id", id), zap.Uint("post_id", comment.PostID))
	return nil
}
