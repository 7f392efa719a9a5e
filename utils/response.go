package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/microforum/apperr"
)

// ContextRequestIDKey stores the per-request id in the Gin context.
const ContextRequestIDKey = "request_id"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// MessageResponse is the body of mutations that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// Respond writes data as JSON with the given status code.
func Respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, data)
}

// Message writes {"message": msg}.
func Message(ctx *gin.Context, status int, msg string) {
	Respond(ctx, status, MessageResponse{Message: msg})
}

// Error writes an error body with an explicit status and code.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, ErrorResponse{Error: message, Code: code})
}

// Fail maps err onto its HTTP status and aborts the request. Internal errors keep their message.
func Fail(ctx *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := kind.Status()

	fields := []zap.Field{
		zap.String("request_id", ctx.GetString(ContextRequestIDKey)),
		zap.String("path", ctx.FullPath()),
		zap.String("kind", kind.String()),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		L().Error("request failed", fields...)
	} else {
		L().Debug("request rejected", fields...)
	}

	Error(ctx, status, status*100+int(kind), err.Error())
	ctx.Abort()
}
