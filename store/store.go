// Package store persists users, posts and comments through gorm.
package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/microforum/models"
)

var (
	// ErrNotFound is returned when a record id or username does not resolve.
	ErrNotFound = errors.New("record not found")
	// ErrUserExists is returned when a username collides with an existing user.
	ErrUserExists = errors.New("username already taken")
)

// CredentialStore persists user accounts.
type CredentialStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUsername(ctx context.Context, id uint, username string) error
	DeleteUser(ctx context.Context, id uint) error
}

// ContentStore persists posts and comments with their authors resolved.
type ContentStore interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	FindPost(ctx context.Context, id uint) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error

	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	FindComment(ctx context.Context, id uint) (*models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id uint) error
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueConstraintErr(err):
		return ErrUserExists
	}
	return err
}

// isUniqueConstraintErr recognises duplicate keys whether or not the dialect translated them.
func isUniqueConstraintErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

// newestFirst orders rows by creation time, id breaking ties.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}
