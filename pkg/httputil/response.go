package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/intake-api/pkg/errors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response wraps all API responses
type Response struct {
	Status   string      `json:"status"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
	Errors   interface{} `json:"errors,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: StatusSuccess,
		Data:   data,
	})
}

// RespondWithCreated answers a completed submission with the next location.
func RespondWithCreated(c *gin.Context, data interface{}, redirect string) {
	if redirect != "" {
		c.Header("Location", redirect)
	}
	c.JSON(http.StatusCreated, Response{
		Status:   StatusSuccess,
		Data:     data,
		Redirect: redirect,
	})
}

// RespondWithError sends an error response. Internal errors are logged and
// their cause is not exposed.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.As(err)
	status := appErr.StatusCode()

	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(status, Response{
		Status:  StatusError,
		Message: appErr.Message,
		Errors:  appErr.Details,
	})
}
