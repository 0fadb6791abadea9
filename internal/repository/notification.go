package repository

import (
	"context"
	"time"

	"github.com/phs9607/mysite/internal/domain"
)

// NotificationRepository 定义了站内通知的存储和检索操作。
type NotificationRepository interface {
	// FindByID 根据 ID 查找通知。
	FindByID(ctx context.Context, id uint) (*domain.Notification, error)

	// Save 保存通知 (创建或更新)。
	Save(ctx context.Context, n *domain.Notification) error

	// ListForUser 返回某用户的通知，按创建时间降序。
	ListForUser(ctx context.Context, userID uint) ([]domain.Notification, error)

	// PurgeReadBefore 删除在 cutoff 之前创建且已读的通知，返回删除数量。
	PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
