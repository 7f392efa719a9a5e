package controllers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/microforum/apperr"
)

// flexID accepts an id sent either as a JSON number or a numeric string.
type flexID uint

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*id = 0
		return nil
	}
	var n uint64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexID(n)
	return nil
}

// bindJSON decodes the body into req and reports binding failures as validation errors.
func bindJSON(ctx *gin.Context, req interface{}, msg string) error {
	if err := ctx.ShouldBindJSON(req); err != nil {
		return apperr.Wrap(apperr.Validation, msg, err)
	}
	return nil
}

// pathID parses the named path parameter as a record id.
func pathID(ctx *gin.Context, name, what string) (uint, error) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.ValidationError("invalid " + what + " id")
	}
	return uint(id), nil
}
