package event

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omnisaude/saude-api/internal/middleware"
	"github.com/omnisaude/saude-api/internal/model"
	"github.com/omnisaude/saude-api/internal/service/event"
	apperrors "github.com/omnisaude/saude-api/pkg/errors"
	"github.com/omnisaude/saude-api/pkg/httputil"
)

type Handler struct {
	service *event.Service
}

func NewHandler(service *event.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/events")
	{
		events.POST("", h.CreateEvent)
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.PUT("/:id", h.UpdateEvent)
		events.DELETE("/:id", h.DeleteEvent)
		events.POST("/:id/files", h.UploadFile)
		events.DELETE("/:id/files/:fileID", h.DeleteFile)
	}
}

func (h *Handler) CreateEvent(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	var req model.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	ev := &model.HealthEvent{
		UserID:         userID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Type:           req.Type,
		Title:          req.Title,
		Description:    req.Description,
	}
	if req.ID != nil {
		ev.ID = *req.ID
	} else {
		ev.ID = uuid.New()
	}

	created, err := h.service.CreateEvent(c.Request.Context(), ev)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid event ID", err))
		return
	}

	ev, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, ev)
}

func (h *Handler) ListEvents(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	var filters model.EventFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	events, err := h.service.ListEvents(c.Request.Context(), userID, &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if page.PageSize <= 0 {
		httputil.RespondWithSuccess(c, events)
		return
	}
	if page.Page < 1 {
		page.Page = 1
	}
	total := len(events)
	start := (page.Page - 1) * page.PageSize
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}
	httputil.RespondWithPagination(c, events[start:end], page.Page, page.PageSize, total)
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid event ID", err))
		return
	}

	var patch model.UpdateEventRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	updated, err := h.service.UpdateEvent(c.Request.Context(), id, &patch)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid event ID", err))
		return
	}

	removeFiles := true
	if v := c.Query("remove_files"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			removeFiles = parsed
		}
	}

	if err := h.service.DeleteEvent(c.Request.Context(), id, removeFiles); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}

func (h *Handler) UploadFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid event ID", err))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("missing file", err))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("failed to read file", err))
		return
	}
	defer f.Close()

	attached, err := h.service.AttachFile(c.Request.Context(), id, f, fileHeader.Filename)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, attached)
}

func (h *Handler) DeleteFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid event ID", err))
		return
	}

	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid file ID", err))
		return
	}

	if err := h.service.RemoveFile(c.Request.Context(), id, fileID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": fileID})
}
