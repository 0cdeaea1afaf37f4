// Package httperr carries structured error responses from middleware to the
// error handler via the gin error chain.
package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the wire shape for auth and middleware failures. Handlers that
// map portal errors respond inline instead.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// AbortWithError records err on the context for the logging middleware and
// writes the public response body.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
