package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
)

// GormAnswerRepository 是 AnswerRepository 接口的 GORM 实现
type GormAnswerRepository struct {
	db *gorm.DB
}

// NewGormAnswerRepository 创建 GormAnswerRepository 实例
func NewGormAnswerRepository(db *gorm.DB) *GormAnswerRepository {
	if db == nil {
		panic("database connection cannot be nil for GormAnswerRepository")
	}
	return &GormAnswerRepository{db: db}
}

// FindByID 实现根据 ID 查找回答
func (r *GormAnswerRepository) FindByID(ctx context.Context, id uint) (*domain.Answer, error) {
	var answer domain.Answer
	err := r.db.WithContext(ctx).Preload("Author").First(&answer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("gorm: find answer by id %d: %w", id, err)
	}
	return &answer, nil
}

// Save 实现保存回答（创建或更新）
func (r *GormAnswerRepository) Save(ctx context.Context, answer *domain.Answer) error {
	err := r.db.WithContext(ctx).Omit("Author", "Comments", "Voters").Save(answer).Error
	if err != nil {
		return fmt.Errorf("gorm: save answer (id: %d, question_id: %d): %w", answer.ID, answer.QuestionID, err)
	}
	return nil
}

// Delete 实现删除回答，级联删除评论和推荐记录
func (r *GormAnswerRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM answer_voters WHERE answer_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Answer{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: delete answer %d: %w", id, err)
	}
	return nil
}

// AddVoter 实现把用户加入回答的推荐人集合，重复推荐是 no-op
func (r *GormAnswerRepository) AddVoter(ctx context.Context, answerID, userID uint) error {
	answer := domain.Answer{ID: answerID}
	voter := domain.User{ID: userID}
	err := r.db.WithContext(ctx).Model(&answer).Association("Voters").Append(&voter)
	if err != nil {
		return fmt.Errorf("gorm: add voter %d to answer %d: %w", userID, answerID, err)
	}
	return nil
}
