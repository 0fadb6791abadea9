package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/phs9607/mysite/internal/service"
	"github.com/phs9607/mysite/internal/tasks"
)

// notificationRetention 是已读通知的保留时长
const notificationRetention = 30 * 24 * time.Hour

// NotificationTaskHandler 处理通知相关的后台任务
type NotificationTaskHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationTaskHandler 创建 NotificationTaskHandler 实例
func NewNotificationTaskHandler(notificationService *service.NotificationService) *NotificationTaskHandler {
	if notificationService == nil {
		panic("NotificationService cannot be nil for NotificationTaskHandler")
	}
	return &NotificationTaskHandler{notificationService: notificationService}
}

// ProcessAnswerNotification 消费新回答通知任务
func (h *NotificationTaskHandler) ProcessAnswerNotification(ctx context.Context, t *asynq.Task) error {
	var payload tasks.AnswerNotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// payload 损坏重试也没用
		return fmt.Errorf("unmarshal answer notification payload: %v: %w", err, asynq.SkipRetry)
	}

	logrus.WithFields(logrus.Fields{
		"question_id": payload.QuestionID,
		"answer_id":   payload.AnswerID,
	}).Debug("Processing answer notification task")

	return h.notificationService.NotifyAnswerCreated(ctx, payload.QuestionID, payload.AnswerID)
}

// ProcessPurge 消费周期清理任务
func (h *NotificationTaskHandler) ProcessPurge(ctx context.Context, t *asynq.Task) error {
	_, err := h.notificationService.PurgeRead(ctx, notificationRetention)
	return err
}
