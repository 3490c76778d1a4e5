package status

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/intake-api/internal/handler"
	"github.com/jwalitptl/intake-api/internal/service/status"
	"github.com/jwalitptl/intake-api/pkg/httputil"
)

type Handler struct {
	service *status.Service
}

func NewHandler(service *status.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	statuses := r.Group("/statuses")
	{
		statuses.GET("", h.ListBadges)
		statuses.GET("/:status", h.GetBadge)
	}
}

func (h *Handler) ListBadges(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.service.List())
}

func (h *Handler) GetBadge(c *gin.Context) {
	badge, err := h.service.Badge(c.Param("status"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, badge)
}
