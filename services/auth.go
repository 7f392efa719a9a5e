package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/cppla/microforum/apperr"
	"github.com/cppla/microforum/models"
	"github.com/cppla/microforum/store"
	"github.com/cppla/microforum/utils"
)

// AuthService registers users, issues bearer tokens and validates them.
type AuthService struct {
	users      store.CredentialStore
	signer     *utils.TokenSigner
	bcryptCost int
	log        *zap.Logger
}

// NewAuthService wires the credential store and token signer. The signer carries the process-wide secret.
func NewAuthService(users store.CredentialStore, signer *utils.TokenSigner, bcryptCost int, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, signer: signer, bcryptCost: bcryptCost, log: log.Named("auth")}
}

// Register stores a new user with a bcrypt hash of password.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return apperr.ValidationError("username and password are required")
	}

	_, err := s.users.FindUserByUsername(ctx, username)
	switch {
	case err == nil:
		return apperr.ValidationError("username already taken")
	case !errors.Is(err, store.ErrNotFound):
		return apperr.InternalError(err)
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperr.InternalError(err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return storeError(err, "")
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", username))
	return nil
}

// Login verifies the credentials and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperr.ValidationError("username and password are required")
	}

	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		return "", storeError(err, "user not found")
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		s.log.Info("login rejected", zap.String("username", username))
		return "", apperr.New(apperr.InvalidCredentials, "invalid password")
	}

	token, err := s.signer.GenerateToken(user.ID)
	if err != nil {
		return "", apperr.InternalError(err)
	}
	return token, nil
}

// Authenticate resolves a bearer token into the caller identity.
func (s *AuthService) Authenticate(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, apperr.New(apperr.Unauthorized, "authorization token missing")
	}

	claims, err := s.signer.ParseToken(token)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Forbidden, "invalid token", err)
	}
	return Identity{UserID: claims.UserID}, nil
}

// ListUsers returns every user. Password hashes never serialize.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.InternalError(err)
	}
	return users, nil
}

// UpdateUsername renames any user. Callers only need to be authenticated.
func (s *AuthService) UpdateUsername(ctx context.Context, id uint, username string, caller Identity) error {
	if username == "" {
		return apperr.ValidationError("username is required")
	}
	if err := s.users.UpdateUsername(ctx, id, username); err != nil {
		return storeError(err, "user not found")
	}
	s.log.Info("user renamed", zap.Uint("user_id", id), zap.Uint("caller_id", caller.UserID))
	return nil
}

// DeleteUser removes any user. Callers only need to be authenticated; authored content stays.
func (s *AuthService) DeleteUser(ctx context.Context, id uint, caller Identity) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return storeError(err, "user not found")
	}
	s.log.Info("user deleted", zap.Uint("user_id", id), zap.Uint("caller_id", caller.UserID))
	return nil
}
