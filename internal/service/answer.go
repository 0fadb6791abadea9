package service

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
	"github.com/phs9607/mysite/internal/tasks"
)

// AnswerService 负责回答的增删改和推荐。
type AnswerService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	asynqClient  *asynq.Client // 为 nil 时不发通知 (测试场景)
}

// NewAnswerService 创建 AnswerService 实例。
func NewAnswerService(answerRepo repository.AnswerRepository, questionRepo repository.QuestionRepository, asynqClient *asynq.Client) *AnswerService {
	if answerRepo == nil {
		panic("AnswerRepository cannot be nil for AnswerService")
	}
	if questionRepo == nil {
		panic("QuestionRepository cannot be nil for AnswerService")
	}
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		asynqClient:  asynqClient,
	}
}

// Create 在 questionID 下以 authorID 的身份创建回答。
// 成功后异步通知提问作者，通知失败不影响本次请求。
func (s *AnswerService) Create(ctx context.Context, questionID, authorID uint, content string) (*domain.Answer, error) {
	if _, err := s.questionRepo.FindByID(ctx, questionID); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return nil, ErrNotFound
		}
		logrus.WithError(err).WithField("question_id", questionID).Error("Answer.Create: failed to load parent question")
		return nil, ErrInternalServer
	}

	answer := &domain.Answer{
		Content:    content,
		AuthorID:   authorID,
		QuestionID: questionID,
		CreateDate: time.Now(),
	}
	if err := s.answerRepo.Save(ctx, answer); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"question_id": questionID, "author_id": authorID}).
			Error("Answer.Create: failed to save answer")
		return nil, ErrInternalServer
	}
	logrus.WithFields(logrus.Fields{"answer_id": answer.ID, "question_id": questionID}).Info("Answer created")

	s.enqueueNotification(questionID, answer.ID)
	return answer, nil
}

// enqueueNotification 把 "新回答" 通知任务投递到队列
func (s *AnswerService) enqueueNotification(questionID, answerID uint) {
	if s.asynqClient == nil {
		logrus.Debug("Answer.Create: asynq client not configured, skipping notification")
		return
	}
	payload, err := tasks.NewAnswerNotificationTask(questionID, answerID)
	if err != nil {
		logrus.WithError(err).Warn("Answer.Create: failed to build notification payload")
		return
	}
	task := asynq.NewTask(tasks.TypeAnswerNotification, payload)
	if _, err := s.asynqClient.Enqueue(task, asynq.Queue("default")); err != nil {
		logrus.WithError(err).WithField("answer_id", answerID).Warn("Answer.Create: failed to enqueue notification task")
	}
}

// Get 返回回答。
func (s *AnswerService) Get(ctx context.Context, id uint) (*domain.Answer, error) {
	answer, err := s.answerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAnswerNotFound) {
			return nil, ErrNotFound
		}
		logrus.WithError(err).WithField("answer_id", id).Error("Answer.Get: repository error")
		return nil, ErrInternalServer
	}
	return answer, nil
}

// Modify 更新回答内容，返回所属提问 ID 供跳转。只有原作者可以修改；作者字段不变。
func (s *AnswerService) Modify(ctx context.Context, id, editorID uint, content string) (*domain.Answer, uint, error) {
	answer, err := s.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if answer.AuthorID != editorID {
		logrus.WithFields(logrus.Fields{"answer_id": id, "editor_id": editorID}).
			Warn("Answer.Modify: permission denied")
		return nil, answer.QuestionID, ErrPermissionDenied
	}

	now := time.Now()
	answer.Content = content
	answer.ModifyDate = &now
	if err := s.answerRepo.Save(ctx, answer); err != nil {
		logrus.WithError(err).WithField("answer_id", id).Error("Answer.Modify: failed to save answer")
		return nil, answer.QuestionID, ErrInternalServer
	}
	return answer, answer.QuestionID, nil
}

// Delete 删除回答，返回所属提问 ID 供跳转。只有原作者可以删除。
func (s *AnswerService) Delete(ctx context.Context, id, editorID uint) (uint, error) {
	answer, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if answer.AuthorID != editorID {
		logrus.WithFields(logrus.Fields{"answer_id": id, "editor_id": editorID}).
			Warn("Answer.Delete: permission denied")
		return answer.QuestionID, ErrPermissionDenied
	}

	if err := s.answerRepo.Delete(ctx, id); err != nil {
		logrus.WithError(err).WithField("answer_id", id).Error("Answer.Delete: repository error")
		return answer.QuestionID, ErrInternalServer
	}
	logrus.WithField("answer_id", id).Info("Answer deleted")
	return answer.QuestionID, nil
}

// Vote 以 voterID 的身份推荐回答，返回所属提问 ID 供跳转。
// 作者不能推荐自己的回答；重复推荐是 no-op。
func (s *AnswerService) Vote(ctx context.Context, id, voterID uint) (uint, error) {
	answer, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if answer.AuthorID == voterID {
		return answer.QuestionID, ErrSelfVote
	}

	if err := s.answerRepo.AddVoter(ctx, id, voterID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"answer_id": id, "voter_id": voterID}).
			Error("Answer.Vote: failed to add voter")
		return answer.QuestionID, ErrInternalServer
	}
	return answer.QuestionID, nil
}
