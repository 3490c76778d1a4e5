package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/intake-api/internal/document"
	"github.com/jwalitptl/intake-api/internal/form"
	"github.com/jwalitptl/intake-api/internal/service/patient"
	"github.com/jwalitptl/intake-api/internal/service/status"
	"github.com/jwalitptl/intake-api/internal/service/user"
	apperrors "github.com/jwalitptl/intake-api/pkg/errors"
	"github.com/jwalitptl/intake-api/pkg/httputil"
	"github.com/jwalitptl/intake-api/pkg/validator"
)

// Fail translates a service error into the API envelope and aborts the request.
func Fail(c *gin.Context, err error) {
	httputil.RespondWithError(c, Translate(err))
}

// Translate maps domain errors to AppErrors. Unknown errors become internal.
func Translate(err error) error {
	var verrs *validator.Errors
	var appErr *apperrors.AppError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &verrs):
		return apperrors.Validation(verrs.Fields, err)
	case errors.As(err, &tooLarge):
		return apperrors.TooLarge("request body too large", err)

	case errors.Is(err, user.ErrEmailTaken):
		return apperrors.Conflict("email already registered", err)
	case errors.Is(err, patient.ErrAlreadyRegistered):
		return apperrors.Conflict("user already registered as a patient", err)
	case errors.Is(err, user.ErrInvalidToken):
		return apperrors.BadRequest("invalid or expired verification token", err)

	case errors.Is(err, user.ErrUserNotFound), errors.Is(err, patient.ErrUserNotFound):
		return apperrors.NotFound("user", err)
	case errors.Is(err, patient.ErrPatientNotFound):
		return apperrors.NotFound("patient", err)
	case errors.Is(err, patient.ErrDocumentNotFound):
		return apperrors.NotFound("identification document", err)
	case errors.Is(err, status.ErrUnknownStatus):
		return apperrors.NotFound("status", err)
	case errors.Is(err, form.ErrUnknownForm):
		return apperrors.NotFound("form", err)

	case errors.Is(err, document.ErrEmptyDocument):
		return apperrors.BadRequest("identification document is empty", err)
	case errors.Is(err, document.ErrDocumentTooLarge):
		return apperrors.TooLarge("identification document is too large", err)
	case errors.Is(err, document.ErrUnsupportedType):
		return apperrors.Unsupported("identification document must be an image or PDF", err)
	}
	return apperrors.Internal(err)
}

// BindError wraps a binding failure as a bad request, unless the body was
// cut off by the size limit.
func BindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return apperrors.BadRequest("invalid request body", err)
}

// ParseID reads a uuid path parameter.
func ParseID(c *gin.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperrors.BadRequest("invalid "+param, err)
	}
	return id, nil
}

// ValidationFields returns the per-field errors carried by err, if any.
func ValidationFields(err error) []validator.FieldError {
	var verrs *validator.Errors
	if errors.As(err, &verrs) {
		return verrs.Fields
	}
	return nil
}
