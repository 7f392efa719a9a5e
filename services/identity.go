// Package services holds the forum's auth, post and comment operations.
package services

import (
	"context"
	"errors"

	"github.com/cppla/microforum/apperr"
	"github.com/cppla/microforum/models"
	"github.com/cppla/microforum/store"
)

// Identity is the authenticated caller, valid for one request.
type Identity struct {
	UserID uint
}

// Owned is a resource with a recorded creator.
type Owned interface {
	OwnerID() uint
}

// IsOwner reports whether identity created resource.
func IsOwner(resource Owned, identity Identity) bool {
	return identity.UserID != 0 && resource.OwnerID() == identity.UserID
}

// storeError translates a store failure into an apperr kind.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFoundError(notFound)
	case errors.Is(err, store.ErrUserExists):
		return apperr.Wrap(apperr.Validation, "username already taken", err)
	}
	return apperr.InternalError(err)
}

// UserLookup resolves a user id to an existing account.
type UserLookup interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
}

// requireAccount fails with Forbidden when the caller's account was deleted after the token was issued.
func requireAccount(ctx context.Context, users UserLookup, caller Identity) error {
	if _, err := users.FindUserByID(ctx, caller.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.ForbiddenError("user no longer exists")
		}
		return apperr.InternalError(err)
	}
	return nil
}
