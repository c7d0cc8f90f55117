package handler

import (
	billingapp "github.com/crediario/backend/internal/application/billing"
	"github.com/crediario/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes manual triggers for the reminder jobs.
// The scheduler runs them automatically; these endpoints exist for
// operations and testing.
type NotificationHandler struct {
	BaseHandler
	notificationService *billingapp.NotificationService
	defaultDaysAhead    int
	dispatchBatch       int
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notificationService *billingapp.NotificationService,
	defaultDaysAhead int,
	dispatchBatch int,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		defaultDaysAhead:    defaultDaysAhead,
		dispatchBatch:       dispatchBatch,
	}
}

// ScheduleRemindersRequest overrides the reminder horizon for a manual run
type ScheduleRemindersRequest struct {
	DaysAhead *int `json:"days_ahead" binding:"omitempty,min=0,max=365"`
}

// ScheduleResult reports how many notifications a manual run produced
type ScheduleResult struct {
	Scheduled int `json:"scheduled"`
}

// DispatchResult reports how many notifications a dispatch run sent
type DispatchResult struct {
	Sent int `json:"sent"`
}

// ScheduleReminders godoc
// @ID           scheduleDueReminders
// @Summary      Schedule due-date reminders now
// @Description  Creates reminders for invoices due days_ahead days from today. Idempotent per invoice and day.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body ScheduleRemindersRequest false "Optional horizon override"
// @Success      200 {object} dto.Response
// @Router       /billing/notifications/schedule [post]
func (h *NotificationHandler) ScheduleReminders(c *gin.Context) {
	daysAhead := h.defaultDaysAhead

	var req ScheduleRemindersRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		if req.DaysAhead != nil {
			daysAhead = *req.DaysAhead
		}
	}

	count, err := h.notificationService.ScheduleDueReminders(c.Request.Context(), daysAhead)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ScheduleResult{Scheduled: count})
}

// DispatchPending godoc
// @ID           dispatchPendingNotifications
// @Summary      Dispatch pending notifications now
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /billing/notifications/dispatch [post]
func (h *NotificationHandler) DispatchPending(c *gin.Context) {
	sent, err := h.notificationService.DispatchPending(c.Request.Context(), h.dispatchBatch)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DispatchResult{Sent: sent})
}
