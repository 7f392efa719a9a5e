package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/microforum/middleware"
	"github.com/cppla/microforum/models"
	"github.com/cppla/microforum/services"
	"github.com/cppla/microforum/utils"
)

// CommentService is the subset of services.CommentService the comment routes need.
type CommentService interface {
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	CreateComment(ctx context.Context, content string, postID uint, caller services.Identity) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uint, caller services.Identity) error
}

// CommentController manages comments attached to posts.
type CommentController struct {
	comments CommentService
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(comments CommentService) *CommentController {
	return &CommentController{comments: comments}
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
	PostID  flexID `json:"postId" binding:"required"`
}

// ListComments returns the comments of a post, newest first. Unknown or
// malformed post ids yield an empty list.
func (c *CommentController) ListComments(ctx *gin.Context) {
	postID, _ := strconv.ParseUint(ctx.Param("postId"), 10, 64)
	comments, err := c.comments.ListComments(ctx.Request.Context(), uint(postID))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusOK, comments)
}

// CreateComment attaches a comment to a post id.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	caller, err := middleware.CurrentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req commentRequest
	if err := bindJSON(ctx, &req, "content and postId are required"); err != nil {
		utils.Fail(ctx, err)
		return
	}
	comment, err := c.comments.CreateComment(ctx.Request.Context(), req.Content, uint(req.PostID), caller)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, comment)
}

// DeleteComment removes a comment written by the caller.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	caller, err := middleware.CurrentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := pathID(ctx, "id", "comment")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := c.comments.DeleteComment(ctx.Request.Context(), id, caller); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, "Comment deleted")
}
