package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/prasetyoadi/admin-directory/internal/interface/http"
)

// NotificationModule wires the unread feed routes:
// GET  /api/notifications       unread feed, newest first
// POST /api/notifications/read  mark ids read, returns fresh feed
type NotificationModule struct {
	Handler *handlers.NotificationHandler
}

func NewNotificationModule(h *handlers.NotificationHandler) *NotificationModule {
	return &NotificationModule{Handler: h}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	rg.GET("/notifications", m.Handler.Index)
	rg.POST("/notifications/read", m.Handler.MarkRead)
}
