package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prasetyoadi/admin-directory/internal/application"
	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
	"github.com/prasetyoadi/admin-directory/pkg/response"
	"github.com/prasetyoadi/admin-directory/pkg/validation"
)

type NotificationHandler struct {
	Svc    *application.NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *application.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

type markReadRequest struct {
	IDs []int64 `json:"ids"`
}

// Index returns the unread feed, newest first. A storage failure degrades to
// an empty list so polling clients keep rendering.
func (h *NotificationHandler) Index(c *gin.Context) {
	notifs, err := h.Svc.Unread(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		h.Logger.WithError(err).Error("notification feed failed")
		notifs = []entity.Notification{}
	}
	response.Success(c, http.StatusOK, notifs, "notifications", map[string]any{"count": len(notifs)})
}

// MarkRead marks the given ids read and returns the fresh unread feed.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	notifs, err := h.Svc.MarkRead(c.Request.Context(), req.IDs)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "operation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, notifs, "notifications updated", map[string]any{"count": len(notifs)})
}
