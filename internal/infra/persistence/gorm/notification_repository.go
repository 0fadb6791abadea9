package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
)

// GormNotificationRepository 是 NotificationRepository 接口的 GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository 创建 GormNotificationRepository 实例
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	if db == nil {
		panic("database connection cannot be nil for GormNotificationRepository")
	}
	return &GormNotificationRepository{db: db}
}

// FindByID 实现根据 ID 查找通知
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uint) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.WithContext(ctx).First(&n, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find notification by id %d: %w", id, err)
	}
	return &n, nil
}

// Save 实现保存通知（创建或更新）
func (r *GormNotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	if err := r.db.WithContext(ctx).Save(n).Error; err != nil {
		return fmt.Errorf("gorm: save notification (id: %d, user_id: %d): %w", n.ID, n.UserID, err)
	}
	return nil
}

// ListForUser 实现按创建时间降序返回某用户的通知
func (r *GormNotificationRepository) ListForUser(ctx context.Context, userID uint) ([]domain.Notification, error) {
	var list []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list notifications for user %d: %w", userID, err)
	}
	return list, nil
}

// PurgeReadBefore 实现删除 cutoff 之前的已读通知
func (r *GormNotificationRepository) PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("`read` = ? AND created_at < ?", true, cutoff).
		Delete(&domain.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: purge read notifications before %s: %w", cutoff.Format(time.RFC3339), result.Error)
	}
	return result.RowsAffected, nil
}
