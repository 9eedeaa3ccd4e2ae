package lab

import (
	"github.com/gin-gonic/gin"

	"github.com/omnisaude/saude-api/internal/middleware"
	"github.com/omnisaude/saude-api/internal/model"
	"github.com/omnisaude/saude-api/internal/service/lab"
	apperrors "github.com/omnisaude/saude-api/pkg/errors"
	"github.com/omnisaude/saude-api/pkg/httputil"
)

type Handler struct {
	service *lab.Service
}

func NewHandler(service *lab.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/lab-reports", h.SubmitReport)
}

func (h *Handler) SubmitReport(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	var req model.LabSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	file, err := h.service.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, file)
}
