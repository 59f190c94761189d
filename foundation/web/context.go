package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Context carries the request context and the gin context together so
// handlers can pass c.Ctx down into repositories.
type Context struct {
	*gin.Context
	Ctx context.Context
	log *zap.Logger
}

// Bind decodes the JSON request body into v. A body that does not decode is
// a 400 for the caller.
func (c *Context) Bind(v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return NewRequestError(errors.Wrap(err, "parsing request body"), http.StatusBadRequest)
	}

	return nil
}

// Respond writes data as a JSON response with the given status code.
func (c *Context) Respond(data interface{}, statusCode int) error {
	c.JSON(statusCode, data)
	return nil
}

// RespondText writes a plain-text response body.
func (c *Context) RespondText(statusCode int, body string) error {
	c.String(statusCode, body)
	return nil
}

// RespondData writes raw bytes with the given content type.
func (c *Context) RespondData(statusCode int, contentType string, body []byte) error {
	c.Data(statusCode, contentType, body)
	return nil
}

// RespondError translates err into a JSON error response. *RequestError
// carries its own status code; everything else is a 500 with the message
// hidden from the caller.
func (c *Context) RespondError(err error) error {
	if c.log != nil {
		c.log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	var re *RequestError
	if errors.As(err, &re) {
		c.JSON(re.StatusCode, gin.H{
			"error":  re.Err.Error(),
			"status": false,
		})
		return nil
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":  http.StatusText(http.StatusInternalServerError),
		"status": false,
	})

	return nil
}
