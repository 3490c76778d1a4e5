package user

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/intake-api/internal/form"
	"github.com/jwalitptl/intake-api/internal/handler"
	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/service/user"
	apperrors "github.com/jwalitptl/intake-api/pkg/errors"
	"github.com/jwalitptl/intake-api/pkg/httputil"
	"github.com/jwalitptl/intake-api/pkg/metrics"
)

type Handler struct {
	service user.UserServicer
	metrics *metrics.Metrics
}

func NewHandler(service user.UserServicer, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.RegisterUser)
		users.GET("/verify", h.VerifyEmail)
		users.GET("/:id", h.GetUser)
	}
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req model.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		h.metrics.Registrations.WithLabelValues(form.NameUser, "invalid").Inc()
		handler.Fail(c, handler.BindError(err))
		return
	}

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		fields := handler.ValidationFields(err)
		for _, f := range fields {
			h.metrics.ValidationFailure.WithLabelValues(form.NameUser, f.Field).Inc()
		}
		if fields != nil {
			h.metrics.Registrations.WithLabelValues(form.NameUser, "invalid").Inc()
		} else {
			h.metrics.Registrations.WithLabelValues(form.NameUser, "failed").Inc()
		}
		handler.Fail(c, err)
		return
	}

	h.metrics.Registrations.WithLabelValues(form.NameUser, "success").Inc()
	httputil.RespondWithCreated(c, result.Data, result.Redirect)
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		handler.Fail(c, apperrors.BadRequest("token is required", nil))
		return
	}

	verified, err := h.service.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, verified)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, found)
}
