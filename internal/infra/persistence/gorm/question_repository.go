package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
)

// GormQuestionRepository 是 QuestionRepository 接口的 GORM 实现
type GormQuestionRepository struct {
	db *gorm.DB
}

// NewGormQuestionRepository 创建 GormQuestionRepository 实例
func NewGormQuestionRepository(db *gorm.DB) *GormQuestionRepository {
	if db == nil {
		panic("database connection cannot be nil for GormQuestionRepository")
	}
	return &GormQuestionRepository{db: db}
}

// FindByID 实现根据 ID 查找提问，预加载详情页需要的全部关联
func (r *GormQuestionRepository) FindByID(ctx context.Context, id uint) (*domain.Question, error) {
	var question domain.Question
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Voters").
		Preload("Comments.Author").
		Preload("Answers.Author").
		Preload("Answers.Voters").
		Preload("Answers.Comments.Author").
		First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("gorm: find question by id %d: %w", id, err)
	}
	return &question, nil
}

// applyKeyword 给查询挂上关键字过滤需要的 JOIN 和 WHERE。
// 匹配范围：标题、内容、提问者用户名、回答者用户名、回答内容。
// JOIN 会让同一提问出现多行，调用方需要去重 (DISTINCT 或 GROUP BY)。
func applyKeyword(tx *gorm.DB, keyword string) *gorm.DB {
	if keyword == "" {
		return tx
	}
	kw := "%" + strings.ToLower(keyword) + "%"
	return tx.
		Joins("LEFT JOIN users AS qu ON qu.id = questions.author_id").
		Joins("LEFT JOIN answers AS sa ON sa.question_id = questions.id").
		Joins("LEFT JOIN users AS sau ON sau.id = sa.author_id").
		Where("LOWER(questions.subject) LIKE ? OR LOWER(questions.content) LIKE ? OR LOWER(qu.username) LIKE ? OR LOWER(sau.username) LIKE ? OR LOWER(sa.content) LIKE ?",
			kw, kw, kw, kw, kw)
}

// Count 实现统计匹配关键字的提问总数 (去重后)
func (r *GormQuestionRepository) Count(ctx context.Context, keyword string) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Question{})
	tx = applyKeyword(tx, keyword)

	var count int64
	if err := tx.Distinct("questions.id").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gorm: count questions (kw: %q): %w", keyword, err)
	}
	return count, nil
}

// List 实现按查询条件返回一页提问
func (r *GormQuestionRepository) List(ctx context.Context, q repository.ListQuery) ([]domain.Question, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Question{})
	tx = applyKeyword(tx, q.Keyword)

	switch q.Sort {
	case repository.SortRecommend:
		// num_voter 为临时字段，只用于排序
		tx = tx.
			Joins("LEFT JOIN question_voters AS qv ON qv.question_id = questions.id").
			Select("questions.*, COUNT(DISTINCT qv.user_id) AS num_voter").
			Group("questions.id").
			Order("num_voter DESC, questions.create_date DESC")
	case repository.SortPopular:
		// num_answer 为临时字段，只用于排序
		tx = tx.
			Joins("LEFT JOIN answers AS pa ON pa.question_id = questions.id").
			Select("questions.*, COUNT(DISTINCT pa.id) AS num_answer").
			Group("questions.id").
			Order("num_answer DESC, questions.create_date DESC")
	default: // recent，未知排序也按 recent 处理
		if q.Keyword != "" {
			tx = tx.Group("questions.id")
		}
		tx = tx.Order("questions.create_date DESC")
	}

	var questions []domain.Question
	err := tx.Preload("Author").Preload("Answers").Preload("Voters").
		Offset(q.Offset).Limit(q.Limit).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list questions (sort: %s, kw: %q): %w", q.Sort, q.Keyword, err)
	}
	return questions, nil
}

// Save 实现保存提问（创建或更新）
func (r *GormQuestionRepository) Save(ctx context.Context, question *domain.Question) error {
	// Omit 关联，避免 Save 级联覆盖 Voters/Answers/Comments
	err := r.db.WithContext(ctx).Omit("Author", "Answers", "Comments", "Voters").Save(question).Error
	if err != nil {
		return fmt.Errorf("gorm: save question (id: %d): %w", question.ID, err)
	}
	return nil
}

// Delete 实现删除提问，级联删除回答、评论和推荐记录
func (r *GormQuestionRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answerIDs []uint
		if err := tx.Model(&domain.Answer{}).Where("question_id = ?", id).Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			// 回答下的评论和推荐记录
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&domain.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM answer_voters WHERE answer_id IN ?", answerIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("question_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&domain.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM question_voters WHERE question_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Question{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: delete question %d: %w", id, err)
	}
	return nil
}

// AddVoter 实现把用户加入提问的推荐人集合。
// 连接表以 (question_id, user_id) 为联合主键，Append 做 upsert，重复推荐是 no-op。
func (r *GormQuestionRepository) AddVoter(ctx context.Context, questionID, userID uint) error {
	question := domain.Question{ID: questionID}
	voter := domain.User{ID: userID}
	err := r.db.WithContext(ctx).Model(&question).Association("Voters").Append(&voter)
	if err != nil {
		return fmt.Errorf("gorm: add voter %d to question %d: %w", userID, questionID, err)
	}
	return nil
}
