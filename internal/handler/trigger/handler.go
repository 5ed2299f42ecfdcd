package trigger

import (
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

// FireTrigger handles delayed-trigger callbacks. Stale and duplicate
// invocations return 200 so the trigger service stops redelivering; only
// storage failures surface as 5xx.
func (h *Handler) FireTrigger(c *gin.Context) {
	var req model.FireTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	id, err := uuid.Parse(req.ReminderID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid reminder ID", err))
		return
	}

	if err := h.service.Fire(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"reminder_id": id})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	triggers := r.Group("/triggers")
	{
		triggers.POST("/fire", h.FireTrigger)
	}
}
