package repository

import (
	"context"

	"github.com/phs9607/mysite/internal/domain"
)

// CommentRepository 定义了评论数据的存储和检索操作。
type CommentRepository interface {
	// FindByID 根据 ID 查找评论。
	// 如果评论不存在，应返回 repository.ErrCommentNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Comment, error)

	// Save 保存评论 (创建或更新)。
	Save(ctx context.Context, comment *domain.Comment) error

	// Delete 删除评论。
	Delete(ctx context.Context, id uint) error
}
