package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/microforum/models"
)

type contentStore struct {
	db *gorm.DB
}

// NewContentStore creates a ContentStore backed by db.
func NewContentStore(db *gorm.DB) ContentStore {
	return &contentStore{db: db}
}

func (s *contentStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := newestFirst(s.db.WithContext(ctx).Preload("Author")).Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *contentStore) FindPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find post id %d: %w", id, translate(err))
	}
	return &post, nil
}

// CreatePost inserts post and loads its author.
func (s *contentStore) CreatePost(ctx context.Context, post *models.Post) error {
	db := s.db.WithContext(ctx)
	if err := db.Omit("Author").Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return s.loadAuthor(db, post.AuthorID, &post.Author)
}

// UpdatePost overwrites title and content only, then reloads the author.
func (s *contentStore) UpdatePost(ctx context.Context, post *models.Post) error {
	db := s.db.WithContext(ctx)
	post.UpdatedAt = time.Now()
	err := db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		Select("title", "content", "updated_at").
		Updates(map[string]interface{}{
			"title":      post.Title,
			"content":    post.Content,
			"updated_at": post.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update post id %d: %w", post.ID, err)
	}
	return s.loadAuthor(db, post.AuthorID, &post.Author)
}

// DeletePost removes a post. Its comments are left in place.
func (s *contentStore) DeletePost(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete post id %d: %w", id, err)
	}
	return nil
}

func (s *contentStore) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := newestFirst(s.db.WithContext(ctx).Preload("Author").Where("post_id = ?", postID)).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for post %d: %w", postID, err)
	}
	return comments, nil
}

func (s *contentStore) FindComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find comment id %d: %w", id, translate(err))
	}
	return &comment, nil
}

func (s *contentStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	db := s.db.WithContext(ctx)
	if err := db.Omit("Author").Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return s.loadAuthor(db, comment.AuthorID, &comment.Author)
}

func (s *contentStore) DeleteComment(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Comment{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete comment id %d: %w", id, err)
	}
	return nil
}

// loadAuthor resolves the author projection. A missing user leaves dst nil.
func (s *contentStore) loadAuthor(db *gorm.DB, authorID uint, dst **models.Author) error {
	var authors []models.Author
	if err := db.Where("id = ?", authorID).Limit(1).Find(&authors).Error; err != nil {
		return fmt.Errorf("failed to load author id %d: %w", authorID, err)
	}
	if len(authors) == 0 {
		*dst = nil
		return nil
	}
	*dst = &authors[0]
	return nil
}
