package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/microforum/middleware"
	"github.com/cppla/microforum/models"
	"github.com/cppla/microforum/services"
	"github.com/cppla/microforum/utils"
)

// AuthService is the subset of services.AuthService the user routes need.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUsername(ctx context.Context, id uint, username string, caller services.Identity) error
	DeleteUser(ctx context.Context, id uint, caller services.Identity) error
}

// UserController handles registration, login and user administration.
type UserController struct {
	auth AuthService
}

// NewUserController creates a new UserController instance.
func NewUserController(auth AuthService) *UserController {
	return &UserController{auth: auth}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type usernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account.
func (u *UserController) Register(ctx *gin.Context) {
	var req credentialsRequest
	if err := bindJSON(ctx, &req, "username and password are required"); err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := u.auth.Register(ctx.Request.Context(), req.Username, req.Password); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusCreated, "User created")
}

// Login exchanges credentials for a bearer token.
func (u *UserController) Login(ctx *gin.Context) {
	var req credentialsRequest
	if err := bindJSON(ctx, &req, "username and password are required"); err != nil {
		utils.Fail(ctx, err)
		return
	}
	token, err := u.auth.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusOK, TokenResponse{Token: token})
}

// ListUsers returns all users without password hashes.
func (u *UserController) ListUsers(ctx *gin.Context) {
	users, err := u.auth.ListUsers(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusOK, users)
}

// UpdateUser renames the user in the path.
func (u *UserController) UpdateUser(ctx *gin.Context) {
	caller, err := middleware.CurrentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := pathID(ctx, "id", "user")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req usernameRequest
	if err := bindJSON(ctx, &req, "username is required"); err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := u.auth.UpdateUsername(ctx.Request.Context(), id, req.Username, caller); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, "User updated")
}

// DeleteUser removes the user in the path.
func (u *UserController) DeleteUser(ctx *gin.Context) {
	caller, err := middleware.CurrentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := pathID(ctx, "id", "user")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := u.auth.DeleteUser(ctx.Request.Context(), id, caller); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, "User deleted")
}
