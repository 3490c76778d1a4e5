package form

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/intake-api/internal/form"
	"github.com/jwalitptl/intake-api/internal/handler"
	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/pkg/httputil"
	"github.com/jwalitptl/intake-api/pkg/metrics"
	"github.com/jwalitptl/intake-api/pkg/validator"
)

// ValidationResult is the answer to a draft check.
type ValidationResult struct {
	Valid  bool                   `json:"valid"`
	Errors []validator.FieldError `json:"errors,omitempty"`
}

type Handler struct {
	validator *validator.Validator
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewHandler(v *validator.Validator, m *metrics.Metrics) *Handler {
	return &Handler{validator: v, metrics: m, now: time.Now}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	forms := r.Group("/forms")
	{
		forms.GET("/:form", h.GetForm)
		forms.POST("/:form/validate", h.ValidateForm)
	}
}

func (h *Handler) GetForm(c *gin.Context) {
	def, err := form.Lookup(c.Param("form"), h.now())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, def)
}

// ValidateForm checks a draft without storing it. Failed fields are part of a
// successful answer.
func (h *Handler) ValidateForm(c *gin.Context) {
	name := c.Param("form")

	var draft interface{}
	switch name {
	case form.NamePatient:
		draft = &model.RegisterPatientRequest{}
	case form.NameUser:
		draft = &model.RegisterUserRequest{}
	default:
		handler.Fail(c, form.ErrUnknownForm)
		return
	}

	if err := c.ShouldBindJSON(draft); err != nil {
		handler.Fail(c, handler.BindError(err))
		return
	}

	fields := handler.ValidationFields(h.validator.Validate(draft))
	for _, f := range fields {
		h.metrics.ValidationFailure.WithLabelValues(name, f.Field).Inc()
	}

	httputil.RespondWithSuccess(c, ValidationResult{
		Valid:  len(fields) == 0,
		Errors: fields,
	})
}
