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

// PostService is the subset of services.PostService the post routes need.
type PostService interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, title, content string, caller services.Identity) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, title, content string, caller services.Identity) (*models.Post, error)
	DeletePost(ctx context.Context, id uint, caller services.Identity) error
}

// PostController manages CRUD operations for posts.
type PostController struct {
	posts PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(posts PostService) *PostController {
	return &PostController{posts: posts}
}

type postRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// ListPosts returns every post, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	posts, err := p.posts.ListPosts(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusOK, posts)
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	caller, err := middleware.CurrentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req postRequest
	if err := bindJSON(ctx, &req, "title and content are required"); err != nil {
		utils.Fail(ctx, err)
		return
	}
	post, err := p.posts.CreatePost(ctx.Request.Context(), req.Title, req.Content, caller)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, post)
}

// UpdatePost lets the author change title and content.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	caller, err := middleware.CurrentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := pathID(ctx, "id", "post")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req postRequest
	if err := bindJSON(ctx, &req, "title and content are required"); err != nil {
		utils.Fail(ctx, err)
		return
	}
	post, err := p.posts.UpdatePost(ctx.Request.Context(), id, req.Title, req.Content, caller)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusOK, post)
}

// DeletePost removes a post owned by the caller. Its comments are kept.
func (p *PostController) DeletePost(ctx *gin.Context) {
	caller, err := middleware.CurrentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := pathID(ctx, "id", "post")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := p.posts.DeletePost(ctx.Request.Context(), id, caller); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, "Post deleted")
}
