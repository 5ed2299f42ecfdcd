package reminder

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reminderd/internal/model"
	"reminderd/internal/service/reminder"
	apperrors "reminderd/pkg/errors"
	"reminderd/pkg/httputil"
)

type Handler struct {
	service *reminder.Service
}

func NewHandler(service *reminder.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateReminder(c *gin.Context) {
	var req model.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	reminder, err := h.service.CreateFromText(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, reminder)
}

func (h *Handler) GetReminder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid reminder ID", err))
		return
	}

	reminder, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, reminder)
}

func (h *Handler) ListReminders(c *gin.Context) {
	filter := &model.ListRemindersFilter{
		OwnerID: c.Query("owner_id"),
	}

	if status := c.Query("status"); status != "" {
		s := model.ReminderStatus(status)
		if !s.IsValid() {
			httputil.RespondWithError(c, apperrors.NewBadRequest("invalid status filter", nil))
			return
		}
		filter.Status = &s
	}

	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			httputil.RespondWithError(c, apperrors.NewBadRequest("invalid limit", err))
			return
		}
		filter.Limit = n
	}

	reminders, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, reminders)
}

func (h *Handler) CancelReminder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid reminder ID", err))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"id": id, "status": model.ReminderStatusCancelled})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reminders := r.Group("/reminders")
	{
		reminders.POST("", h.CreateReminder)
		reminders.GET("", h.ListReminders)
		reminders.GET("/:id", h.GetReminder)
		reminders.DELETE("/:id", h.CancelReminder)
	}
}
