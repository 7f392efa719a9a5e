package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/microforum/models"
)

type userStore struct {
	db *gorm.DB
}

// NewCredentialStore creates a CredentialStore backed by db.
func NewCredentialStore(db *gorm.DB) CredentialStore {
	return &userStore{db: db}
}

func (s *userStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Username, translate(err))
	}
	return nil
}

func (s *userStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username %s: %w", username, translate(err))
	}
	return &user, nil
}

func (s *userStore) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find user id %d: %w", id, translate(err))
	}
	return &user, nil
}

func (s *userStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUsername renames a user. Unknown ids are not an error.
func (s *userStore) UpdateUsername(ctx context.Context, id uint, username string) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("username", username).Error
	if err != nil {
		return fmt.Errorf("failed to update user id %d: %w", id, translate(err))
	}
	return nil
}

// DeleteUser removes a user. Unknown ids are not an error; authored content is kept.
func (s *userStore) DeleteUser(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete user id %d: %w", id, err)
	}
	return nil
}
