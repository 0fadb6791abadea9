package repository

import (
	"context"

	"github.com/phs9607/mysite/internal/domain"
)

// AnswerRepository 定义了回答数据的存储和检索操作。
type AnswerRepository interface {
	// FindByID 根据 ID 查找回答，预加载作者。
	// 如果回答不存在，应返回 repository.ErrAnswerNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Answer, error)

	// Save 保存回答 (创建或更新)。
	Save(ctx context.Context, answer *domain.Answer) error

	// Delete 删除回答及其评论和推荐记录 (单个事务内)。
	Delete(ctx context.Context, id uint) error

	// AddVoter 将用户加入回答的推荐人集合，幂等。
	AddVoter(ctx context.Context, answerID, userID uint) error
}
