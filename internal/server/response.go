package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	perrors "github.com/jmgilman/go/errors"

	"github.com/agenthands/pokedex/internal/errs"
)

// Response is the envelope every API endpoint answers with.
type Response struct {
	Data            any                    `json:"data"`
	ResponseMessage string                 `json:"responseMessage"`
	ResponseCode    string                 `json:"responseCode"`
	Error           *perrors.ErrorResponse `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Data:            data,
		ResponseMessage: message,
		ResponseCode:    strconv.Itoa(status),
	})
}

func respondError(c *gin.Context, status int, message string, err error) {
	c.JSON(status, Response{
		ResponseMessage: message,
		ResponseCode:    strconv.Itoa(status),
		Error:           errs.ToJSON(err),
	})
}
