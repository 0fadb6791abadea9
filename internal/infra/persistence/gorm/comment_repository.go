package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
)

// GormCommentRepository 是 CommentRepository 接口的 GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository 创建 GormCommentRepository 实例
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCommentRepository")
	}
	return &GormCommentRepository{db: db}
}

// FindByID 实现根据 ID 查找评论
func (r *GormCommentRepository) FindByID(ctx context.Context, id uint) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, fmt.Errorf("gorm: find comment by id %d: %w", id, err)
	}
	return &comment, nil
}

// Save 实现保存评论（创建或更新）
func (r *GormCommentRepository) Save(ctx context.Context, comment *domain.Comment) error {
	err := r.db.WithContext(ctx).Omit("Author").Save(comment).Error
	if err != nil {
		return fmt.Errorf("gorm: save comment (id: %d): %w", comment.ID, err)
	}
	return nil
}

// Delete 实现删除评论
func (r *GormCommentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&domain.Comment{}, id).Error
	if err != nil {
		return fmt.Errorf("gorm: delete comment %d: %w", id, err)
	}
	return nil
}
