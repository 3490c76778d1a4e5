package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, http.StatusNotFound, NotFound("patient", cause).StatusCode())
	assert.Equal(t, http.StatusBadRequest, BadRequest("bad", cause).StatusCode())
	assert.Equal(t, http.StatusBadRequest, Validation(nil, cause).StatusCode())
	assert.Equal(t, http.StatusConflict, Conflict("taken", cause).StatusCode())
	assert.Equal(t, http.StatusRequestEntityTooLarge, TooLarge("big", cause).StatusCode())
	assert.Equal(t, http.StatusUnsupportedMediaType, Unsupported("type", cause).StatusCode())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized(cause).StatusCode())
	assert.Equal(t, http.StatusInternalServerError, Internal(cause).StatusCode())
}

func TestAsFindsWrappedAppError(t *testing.T) {
	appErr := Conflict("email already registered", nil)
	wrapped := fmt.Errorf("register: %w", appErr)

	assert.Same(t, appErr, As(wrapped))

	plain := As(errors.New("db down"))
	assert.Equal(t, ErrInternal, plain.Code)
	assert.Equal(t, "internal server error", plain.Message)
}
