package repository

import (
	"context"

	"github.com/phs9607/mysite/internal/domain"
)

// SortOrder 是问题列表的排序方式。
type SortOrder string

const (
	// SortRecommend 按推荐数降序，创建时间降序打破平局。
	SortRecommend SortOrder = "recommend"
	// SortPopular 按回答数降序，创建时间降序打破平局。
	SortPopular SortOrder = "popular"
	// SortRecent 按创建时间降序，也是默认排序。
	SortRecent SortOrder = "recent"
)

// ListQuery 描述一次问题列表查询。
// Keyword 为空时表示不过滤；非空时对标题、内容、提问者用户名、
// 回答内容、回答者用户名做大小写不敏感的子串匹配，结果去重。
type ListQuery struct {
	Offset  int
	Limit   int
	Keyword string
	Sort    SortOrder
}

// QuestionRepository 定义了提问数据的存储和检索操作。
type QuestionRepository interface {
	// FindByID 根据 ID 查找提问，预加载作者、推荐人、回答及评论。
	// 如果提问不存在，应返回 repository.ErrQuestionNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Question, error)

	// Count 返回匹配关键字的提问总数 (去重后)。
	Count(ctx context.Context, keyword string) (int64, error)

	// List 按查询条件返回一页提问，预加载作者。
	List(ctx context.Context, q ListQuery) ([]domain.Question, error)

	// Save 保存提问 (创建或更新)。
	Save(ctx context.Context, question *domain.Question) error

	// Delete 删除提问及其所有回答、评论和推荐记录 (单个事务内)。
	Delete(ctx context.Context, id uint) error

	// AddVoter 将用户加入提问的推荐人集合。
	// 用户已在集合中时为幂等 no-op。
	AddVoter(ctx context.Context, questionID, userID uint) error
}
