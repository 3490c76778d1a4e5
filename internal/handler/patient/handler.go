package patient

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/intake-api/internal/form"
	"github.com/jwalitptl/intake-api/internal/handler"
	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/service/patient"
	"github.com/jwalitptl/intake-api/pkg/httputil"
	"github.com/jwalitptl/intake-api/pkg/metrics"
)

// DocumentField is the multipart field carrying the identification scan.
const DocumentField = "identificationDocument"

type Handler struct {
	service patient.PatientService
	metrics *metrics.Metrics
	maxSize int64
}

func NewHandler(service patient.PatientService, m *metrics.Metrics, maxDocumentSize int64) *Handler {
	return &Handler{service: service, metrics: m, maxSize: maxDocumentSize}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/users/:id/patient", h.RegisterPatient)
	r.GET("/users/:id/patient", h.GetUserPatient)

	patients := r.Group("/patients")
	{
		patients.GET("/:id", h.GetPatient)
		patients.GET("/:id/document", h.GetDocument)
	}
}

// RegisterPatient accepts the form as JSON, or as multipart with an optional
// identification document.
func (h *Handler) RegisterPatient(c *gin.Context) {
	userID, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}

	var req model.RegisterPatientRequest
	if err := c.ShouldBind(&req); err != nil {
		h.metrics.Registrations.WithLabelValues(form.NamePatient, "invalid").Inc()
		handler.Fail(c, handler.BindError(err))
		return
	}

	var upload *model.Upload
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		upload, err = h.readUpload(c)
		if err != nil {
			handler.Fail(c, err)
			return
		}
	}

	result, err := h.service.Register(c.Request.Context(), userID, &req, upload)
	if err != nil {
		fields := handler.ValidationFields(err)
		for _, f := range fields {
			h.metrics.ValidationFailure.WithLabelValues(form.NamePatient, f.Field).Inc()
		}
		outcome := "failed"
		if fields != nil {
			outcome = "invalid"
		}
		h.metrics.Registrations.WithLabelValues(form.NamePatient, outcome).Inc()
		handler.Fail(c, err)
		return
	}

	h.metrics.Registrations.WithLabelValues(form.NamePatient, "success").Inc()
	if upload != nil {
		h.metrics.DocumentBytes.Observe(float64(len(upload.Data)))
	}
	httputil.RespondWithCreated(c, result.Data, result.Redirect)
}

// readUpload returns nil when the form carries no document. Files over the
// limit are read one byte past it so the size check can reject them.
func (h *Handler) readUpload(c *gin.Context) (*model.Upload, error) {
	file, header, err := c.Request.FormFile(DocumentField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, handler.BindError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxSize+1))
	if err != nil {
		return nil, handler.BindError(err)
	}
	return &model.Upload{FileName: header.Filename, Data: data}, nil
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) GetUserPatient(c *gin.Context) {
	userID, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}

	p, err := h.service.GetByUser(c.Request.Context(), userID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) GetDocument(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		handler.Fail(c, err)
		return
	}

	doc, err := h.service.Document(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", strconv.Quote(doc.FileName)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
