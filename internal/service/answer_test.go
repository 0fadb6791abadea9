package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
	"github.com/phs9607/mysite/internal/repository/mocks"
	"github.com/phs9607/mysite/internal/service"
)

// --- 测试 Create 方法 ---

func TestAnswerService_Create_Success(t *testing.T) {
	// Arrange: asynq client 为 nil 时跳过通知，不影响创建
	mockAnswerRepo := new(mocks.AnswerRepository)
	mockQuestionRepo := new(mocks.QuestionRepository)
	answerService := service.NewAnswerService(mockAnswerRepo, mockQuestionRepo, nil)
	ctx := context.Background()

	parent := &domain.Question{ID: 2, AuthorID: 1}
	mockQuestionRepo.On("FindByID", ctx, uint(2)).Return(parent, nil).Once()
	mockAnswerRepo.On("Save", ctx, mock.MatchedBy(func(a *domain.Answer) bool {
		assert.Equal(t, uint(2), a.QuestionID)
		assert.Equal(t, uint(5), a.AuthorID)
		assert.Equal(t, "my answer", a.Content)
		assert.False(t, a.CreateDate.IsZero())
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Answer).ID = 11
		}).
		Return(nil).
		Once()

	// Act
	answer, err := answerService.Create(ctx, 2, 5, "my answer")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(11), answer.ID)

	mockAnswerRepo.AssertExpectations(t)
	mockQuestionRepo.AssertExpectations(t)
}

func TestAnswerService_Create_QuestionNotFound(t *testing.T) {
	// Arrange
	mockAnswerRepo := new(mocks.AnswerRepository)
	mockQuestionRepo := new(mocks.QuestionRepository)
	answerService := service.NewAnswerService(mockAnswerRepo, mockQuestionRepo, nil)
	ctx := context.Background()

	mockQuestionRepo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrQuestionNotFound).Once()

	// Act
	_, err := answerService.Create(ctx, 404, 5, "orphan answer")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNotFound))

	mockQuestionRepo.AssertExpectations(t)
	mockAnswerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- 测试 Modify 方法 ---

func TestAnswerService_Modify_PermissionDenied(t *testing.T) {
	// Arrange: FindByID 只允许调用一次，拒绝时直接带回提问 ID，不需要重读
	mockAnswerRepo := new(mocks.AnswerRepository)
	mockQuestionRepo := new(mocks.QuestionRepository)
	answerService := service.NewAnswerService(mockAnswerRepo, mockQuestionRepo, nil)
	ctx := context.Background()

	existing := &domain.Answer{ID: 11, AuthorID: 5, QuestionID: 2}
	mockAnswerRepo.On("FindByID", ctx, uint(11)).Return(existing, nil).Once()

	// Act
	_, questionID, err := answerService.Modify(ctx, 11, 99, "hijack")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrPermissionDenied))
	assert.Equal(t, uint(2), questionID, "即使拒绝也返回提问 ID 供跳转")

	mockAnswerRepo.AssertExpectations(t)
	mockAnswerRepo.AssertNumberOfCalls(t, "FindByID", 1)
	mockAnswerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAnswerService_Modify_Success(t *testing.T) {
	// Arrange
	mockAnswerRepo := new(mocks.AnswerRepository)
	mockQuestionRepo := new(mocks.QuestionRepository)
	answerService := service.NewAnswerService(mockAnswerRepo, mockQuestionRepo, nil)
	ctx := context.Background()

	existing := &domain.Answer{ID: 11, AuthorID: 5, QuestionID: 2, Content: "old"}
	mockAnswerRepo.On("FindByID", ctx, uint(11)).Return(existing, nil).Once()
	mockAnswerRepo.On("Save", ctx, mock.MatchedBy(func(a *domain.Answer) bool {
		assert.Equal(t, "new", a.Content)
		assert.Equal(t, uint(5), a.AuthorID, "修改不应改变作者")
		assert.NotNil(t, a.ModifyDate)
		return true
	})).Return(nil).Once()

	// Act
	updated, questionID, err := answerService.Modify(ctx, 11, 5, "new")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Content)
	assert.Equal(t, uint(2), questionID)

	mockAnswerRepo.AssertExpectations(t)
}

// --- 测试 Delete 方法 ---

func TestAnswerService_Delete_ReturnsQuestionID(t *testing.T) {
	// Arrange
	mockAnswerRepo := new(mocks.AnswerRepository)
	mockQuestionRepo := new(mocks.QuestionRepository)
	answerService := service.NewAnswerService(mockAnswerRepo, mockQuestionRepo, nil)
	ctx := context.Background()

	existing := &domain.Answer{ID: 11, AuthorID: 5, QuestionID: 2}
	mockAnswerRepo.On("FindByID", ctx, uint(11)).Return(existing, nil).Once()
	mockAnswerRepo.On("Delete", ctx, uint(11)).Return(nil).Once()

	// Act
	questionID, err := answerService.Delete(ctx, 11, 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(2), questionID)

	mockAnswerRepo.AssertExpectations(t)
}

func TestAnswerService_Delete_PermissionDenied(t *testing.T) {
	// Arrange
	mockAnswerRepo := new(mocks.AnswerRepository)
	mockQuestionRepo := new(mocks.QuestionRepository)
	answerService := service.NewAnswerService(mockAnswerRepo, mockQuestionRepo, nil)
	ctx := context.Background()

	existing := &domain.Answer{ID: 11, AuthorID: 5, QuestionID: 2}
	mockAnswerRepo.On("FindByID", ctx, uint(11)).Return(existing, nil).Once()

	// Act
	_, err := answerService.Delete(ctx, 11, 99)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrPermissionDenied))

	mockAnswerRepo.AssertExpectations(t)
	mockAnswerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// --- 测试 Vote 方法 ---

func TestAnswerService_Vote_Success(t *testing.T) {
	// Arrange
	mockAnswerRepo := new(mocks.AnswerRepository)
	mockQuestionRepo := new(mocks.QuestionRepository)
	answerService := service.NewAnswerService(mockAnswerRepo, mockQuestionRepo, nil)
	ctx := context.Background()

	existing := &domain.Answer{ID: 11, AuthorID: 5, QuestionID: 2}
	mockAnswerRepo.On("FindByID", ctx, uint(11)).Return(existing, nil).Once()
	mockAnswerRepo.On("AddVoter", ctx, uint(11), uint(42)).Return(nil).Once()

	// Act
	questionID, err := answerService.Vote(ctx, 11, 42)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(2), questionID)

	mockAnswerRepo.AssertExpectations(t)
}

func TestAnswerService_Vote_SelfVoteRejected(t *testing.T) {
	// Arrange
	mockAnswerRepo := new(mocks.AnswerRepository)
	mockQuestionRepo := new(mocks.QuestionRepository)
	answerService := service.NewAnswerService(mockAnswerRepo, mockQuestionRepo, nil)
	ctx := context.Background()

	existing := &domain.Answer{ID: 11, AuthorID: 5, QuestionID: 2}
	mockAnswerRepo.On("FindByID", ctx, uint(11)).Return(existing, nil).Once()

	// Act
	questionID, err := answerService.Vote(ctx, 11, 5)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrSelfVote))
	assert.Equal(t, uint(2), questionID, "即使拒绝也返回提问 ID 供跳转")

	mockAnswerRepo.AssertExpectations(t)
	mockAnswerRepo.AssertNotCalled(t, "AddVoter", mock.Anything, mock.Anything, mock.Anything)
}
