package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
)

// CommentService 负责提问评论和回答评论的增删改。
// 评论创建时挂到提问或回答二者之一，之后父级不再变更。
type CommentService struct {
	commentRepo  repository.CommentRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
}

// NewCommentService 创建 CommentService 实例。
func NewCommentService(commentRepo repository.CommentRepository, questionRepo repository.QuestionRepository, answerRepo repository.AnswerRepository) *CommentService {
	if commentRepo == nil {
		panic("CommentRepository cannot be nil for CommentService")
	}
	if questionRepo == nil {
		panic("QuestionRepository cannot be nil for CommentService")
	}
	if answerRepo == nil {
		panic("AnswerRepository cannot be nil for CommentService")
	}
	return &CommentService{
		commentRepo:  commentRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

// Get 返回评论。
func (s *CommentService) Get(ctx context.Context, id uint) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrNotFound
		}
		logrus.WithError(err).WithField("comment_id", id).Error("Comment.Get: repository error")
		return nil, ErrInternalServer
	}
	return comment, nil
}

// GetWithParent 返回评论及其所属提问 ID。
func (s *CommentService) GetWithParent(ctx context.Context, id uint) (*domain.Comment, uint, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	questionID, err := s.questionIDOf(ctx, comment)
	if err != nil {
		return nil, 0, err
	}
	return comment, questionID, nil
}

// CreateForQuestion 在提问下创建评论。
func (s *CommentService) CreateForQuestion(ctx context.Context, questionID, authorID uint, content string) (*domain.Comment, error) {
	if _, err := s.questionRepo.FindByID(ctx, questionID); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return nil, ErrNotFound
		}
		logrus.WithError(err).WithField("question_id", questionID).Error("Comment.CreateForQuestion: failed to load parent")
		return nil, ErrInternalServer
	}

	comment := &domain.Comment{
		Content:    content,
		AuthorID:   authorID,
		QuestionID: &questionID,
		CreateDate: time.Now(),
	}
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		logrus.WithError(err).WithField("question_id", questionID).Error("Comment.CreateForQuestion: failed to save")
		return nil, ErrInternalServer
	}
	return comment, nil
}

// CreateForAnswer 在回答下创建评论，返回评论和所属提问 ID 供跳转。
func (s *CommentService) CreateForAnswer(ctx context.Context, answerID, authorID uint, content string) (*domain.Comment, uint, error) {
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, repository.ErrAnswerNotFound) {
			return nil, 0, ErrNotFound
		}
		logrus.WithError(err).WithField("answer_id", answerID).Error("Comment.CreateForAnswer: failed to load parent")
		return nil, 0, ErrInternalServer
	}

	comment := &domain.Comment{
		Content:    content,
		AuthorID:   authorID,
		AnswerID:   &answerID,
		CreateDate: time.Now(),
	}
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		logrus.WithError(err).WithField("answer_id", answerID).Error("Comment.CreateForAnswer: failed to save")
		return nil, 0, ErrInternalServer
	}
	return comment, answer.QuestionID, nil
}

// questionIDOf 解析评论所属的提问 ID (直接挂在提问下或经由回答)。
func (s *CommentService) questionIDOf(ctx context.Context, comment *domain.Comment) (uint, error) {
	if comment.OnQuestion() {
		return *comment.QuestionID, nil
	}
	answer, err := s.answerRepo.FindByID(ctx, *comment.AnswerID)
	if err != nil {
		logrus.WithError(err).WithField("answer_id", *comment.AnswerID).Error("Comment: failed to resolve parent question")
		return 0, ErrInternalServer
	}
	return answer.QuestionID, nil
}

// Modify 更新评论内容，返回评论和所属提问 ID 供跳转。只有原作者可以修改。
func (s *CommentService) Modify(ctx context.Context, id, editorID uint, content string) (*domain.Comment, uint, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	questionID, err := s.questionIDOf(ctx, comment)
	if err != nil {
		return nil, 0, err
	}
	if comment.AuthorID != editorID {
		logrus.WithFields(logrus.Fields{"comment_id": id, "editor_id": editorID}).
			Warn("Comment.Modify: permission denied")
		return nil, questionID, ErrPermissionDenied
	}

	now := time.Now()
	comment.Content = content
	comment.ModifyDate = &now
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		logrus.WithError(err).WithField("comment_id", id).Error("Comment.Modify: failed to save")
		return nil, questionID, ErrInternalServer
	}
	return comment, questionID, nil
}

// Delete 删除评论，返回所属提问 ID 供跳转。只有原作者可以删除。
func (s *CommentService) Delete(ctx context.Context, id, editorID uint) (uint, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	questionID, err := s.questionIDOf(ctx, comment)
	if err != nil {
		return 0, err
	}
	if comment.AuthorID != editorID {
		logrus.WithFields(logrus.Fields{"comment_id": id, "editor_id": editorID}).
			Warn("Comment.Delete: permission denied")
		return questionID, ErrPermissionDenied
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		logrus.WithError(err).WithField("comment_id", id).Error("Comment.Delete: repository error")
		return questionID, ErrInternalServer
	}
	return questionID, nil
}
