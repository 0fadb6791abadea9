package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
)

// NotificationService 负责站内通知的生成和查询。
// 通知由 worker 异步生成，列表和已读标记走普通请求路径。
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	questionRepo     repository.QuestionRepository
	answerRepo       repository.AnswerRepository
}

// NewNotificationService 创建 NotificationService 实例。
func NewNotificationService(notificationRepo repository.NotificationRepository, questionRepo repository.QuestionRepository, answerRepo repository.AnswerRepository) *NotificationService {
	if notificationRepo == nil {
		panic("NotificationRepository cannot be nil for NotificationService")
	}
	if questionRepo == nil {
		panic("QuestionRepository cannot be nil for NotificationService")
	}
	if answerRepo == nil {
		panic("AnswerRepository cannot be nil for NotificationService")
	}
	return &NotificationService{
		notificationRepo: notificationRepo,
		questionRepo:     questionRepo,
		answerRepo:       answerRepo,
	}
}

// NotifyAnswerCreated 给提问作者写一条 "新回答" 通知。
// 自己回答自己的提问时不产生通知。由 worker 调用。
func (s *NotificationService) NotifyAnswerCreated(ctx context.Context, questionID, answerID uint) error {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			// 提问在任务执行前被删除，任务作废即可
			logrus.WithField("question_id", questionID).Info("NotifyAnswerCreated: question gone, dropping task")
			return nil
		}
		return fmt.Errorf("load question %d: %w", questionID, err)
	}
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, repository.ErrAnswerNotFound) {
			logrus.WithField("answer_id", answerID).Info("NotifyAnswerCreated: answer gone, dropping task")
			return nil
		}
		return fmt.Errorf("load answer %d: %w", answerID, err)
	}

	if question.AuthorID == answer.AuthorID {
		return nil
	}

	n := &domain.Notification{
		UserID:     question.AuthorID,
		QuestionID: questionID,
		AnswerID:   answerID,
		Message:    fmt.Sprintf("New answer to your question: %s", question.Subject),
	}
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": n.UserID, "question_id": questionID, "answer_id": answerID}).
		Info("Notification created")
	return nil
}

// ListForUser 返回用户的通知列表。
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]domain.Notification, error) {
	list, err := s.notificationRepo.ListForUser(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Notification.ListForUser: repository error")
		return nil, ErrInternalServer
	}
	return list, nil
}

// MarkRead 把一条通知标记为已读。只有接收者本人可以操作。
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	n, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		logrus.WithError(err).WithField("notification_id", id).Error("Notification.MarkRead: repository error")
		return ErrInternalServer
	}
	if n.UserID != userID {
		return ErrPermissionDenied
	}
	if n.Read {
		return nil
	}

	n.Read = true
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		logrus.WithError(err).WithField("notification_id", id).Error("Notification.MarkRead: failed to save")
		return ErrInternalServer
	}
	return nil
}

// PurgeRead 删除已读且超过保留期的通知，返回删除数量。由定时任务调用。
func (s *NotificationService) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	purged, err := s.notificationRepo.PurgeReadBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge read notifications: %w", err)
	}
	if purged > 0 {
		logrus.WithField("purged", purged).Info("Read notifications purged")
	}
	return purged, nil
}
