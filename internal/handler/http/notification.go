package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phs9607/mysite/internal/service"
)

// NotificationHandler 负责站内通知的列表和已读标记
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler 实例
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List 渲染当前用户的通知列表
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "notification_list.html", gin.H{
		"notification_list": notifications,
		"flash":             PopFlash(c),
	})
}

// MarkRead 把一条通知标记为已读后回到列表页
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			SetFlash(c, "no permission")
			c.Redirect(http.StatusFound, "/notifications")
			return
		}
		HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/notifications")
}
