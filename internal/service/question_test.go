package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
	"github.com/phs9607/mysite/internal/repository/mocks"
	"github.com/phs9607/mysite/internal/service"
)

// --- 测试 Board 方法 ---

func TestQuestionService_Board_FirstPage(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	mockQuestionRepo.On("Count", ctx, "").Return(int64(25), nil).Once()
	mockQuestionRepo.On("List", ctx, repository.ListQuery{
		Offset:  0,
		Limit:   10,
		Keyword: "",
		Sort:    repository.SortRecent,
	}).Return(make([]domain.Question, 10), nil).Once()

	// Act
	page, err := questionService.Board(ctx, 1, "", "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(25), page.Total)
	assert.Len(t, page.Questions, 10)
	assert.False(t, page.HasPrev())
	assert.True(t, page.HasNext())

	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_Board_PageClampedToLast(t *testing.T) {
	// Arrange: 25 条数据共 3 页，请求第 4 页应落到第 3 页
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	mockQuestionRepo.On("Count", ctx, "").Return(int64(25), nil).Once()
	mockQuestionRepo.On("List", ctx, repository.ListQuery{
		Offset:  20,
		Limit:   10,
		Keyword: "",
		Sort:    repository.SortRecent,
	}).Return(make([]domain.Question, 5), nil).Once()

	// Act
	page, err := questionService.Board(ctx, 4, "", "recent")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Questions, 5)
	assert.False(t, page.HasNext())

	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_Board_PageClampedToFirst(t *testing.T) {
	// Arrange: page=0 和负数都收敛到第 1 页
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	mockQuestionRepo.On("Count", ctx, "").Return(int64(3), nil).Once()
	mockQuestionRepo.On("List", ctx, repository.ListQuery{
		Offset:  0,
		Limit:   10,
		Keyword: "",
		Sort:    repository.SortRecent,
	}).Return(make([]domain.Question, 3), nil).Once()

	// Act
	page, err := questionService.Board(ctx, -2, "", "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)

	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_Board_EmptyList(t *testing.T) {
	// Arrange: 空列表也有第 1 页，不报错
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	mockQuestionRepo.On("Count", ctx, "golang").Return(int64(0), nil).Once()
	mockQuestionRepo.On("List", ctx, repository.ListQuery{
		Offset:  0,
		Limit:   10,
		Keyword: "golang",
		Sort:    repository.SortRecent,
	}).Return([]domain.Question{}, nil).Once()

	// Act
	page, err := questionService.Board(ctx, 1, "golang", "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Questions)

	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_Board_UnknownSortFallsBackToRecent(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	mockQuestionRepo.On("Count", ctx, "").Return(int64(1), nil).Once()
	mockQuestionRepo.On("List", ctx, mock.MatchedBy(func(q repository.ListQuery) bool {
		return q.Sort == repository.SortRecent
	})).Return(make([]domain.Question, 1), nil).Once()

	// Act
	page, err := questionService.Board(ctx, 1, "", "bogus")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, repository.SortRecent, page.Sort)

	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_Board_RecommendSortPassedThrough(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	mockQuestionRepo.On("Count", ctx, "").Return(int64(1), nil).Once()
	mockQuestionRepo.On("List", ctx, mock.MatchedBy(func(q repository.ListQuery) bool {
		return q.Sort == repository.SortRecommend
	})).Return(make([]domain.Question, 1), nil).Once()

	// Act
	page, err := questionService.Board(ctx, 1, "", "recommend")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, repository.SortRecommend, page.Sort)

	mockQuestionRepo.AssertExpectations(t)
}

// --- 测试 Get 方法 ---

func TestQuestionService_Get_NotFound(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	mockQuestionRepo.On("FindByID", ctx, uint(999)).Return(nil, repository.ErrQuestionNotFound).Once()

	// Act
	_, err := questionService.Get(ctx, 999)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNotFound))

	mockQuestionRepo.AssertExpectations(t)
}

// --- 测试 Modify 方法 ---

func TestQuestionService_Modify_Success(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	existing := &domain.Question{
		ID:         7,
		Subject:    "old subject",
		Content:    "old content",
		AuthorID:   3,
		CreateDate: time.Now().Add(-time.Hour),
	}
	mockQuestionRepo.On("FindByID", ctx, uint(7)).Return(existing, nil).Once()
	mockQuestionRepo.On("Save", ctx, mock.MatchedBy(func(q *domain.Question) bool {
		assert.Equal(t, "new subject", q.Subject)
		assert.Equal(t, "new content", q.Content)
		assert.Equal(t, uint(3), q.AuthorID, "修改不应改变作者")
		assert.NotNil(t, q.ModifyDate)
		return true
	})).Return(nil).Once()

	// Act
	updated, err := questionService.Modify(ctx, 7, 3, "new subject", "new content")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new subject", updated.Subject)

	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_Modify_PermissionDenied(t *testing.T) {
	// Arrange: 非作者修改被拒绝且不落库
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	existing := &domain.Question{ID: 7, AuthorID: 3}
	mockQuestionRepo.On("FindByID", ctx, uint(7)).Return(existing, nil).Once()

	// Act
	_, err := questionService.Modify(ctx, 7, 99, "x", "y")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrPermissionDenied))

	mockQuestionRepo.AssertExpectations(t)
	mockQuestionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- 测试 Delete 方法 ---

func TestQuestionService_Delete_Success(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	existing := &domain.Question{ID: 7, AuthorID: 3}
	mockQuestionRepo.On("FindByID", ctx, uint(7)).Return(existing, nil).Once()
	mockQuestionRepo.On("Delete", ctx, uint(7)).Return(nil).Once()

	// Act
	err := questionService.Delete(ctx, 7, 3)

	// Assert
	assert.NoError(t, err)
	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_Delete_PermissionDenied(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	existing := &domain.Question{ID: 7, AuthorID: 3}
	mockQuestionRepo.On("FindByID", ctx, uint(7)).Return(existing, nil).Once()

	// Act
	err := questionService.Delete(ctx, 7, 99)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrPermissionDenied))

	mockQuestionRepo.AssertExpectations(t)
	mockQuestionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// --- 测试 Vote 方法 ---

func TestQuestionService_Vote_Success(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	existing := &domain.Question{ID: 7, AuthorID: 3}
	mockQuestionRepo.On("FindByID", ctx, uint(7)).Return(existing, nil).Once()
	mockQuestionRepo.On("AddVoter", ctx, uint(7), uint(42)).Return(nil).Once()

	// Act
	err := questionService.Vote(ctx, 7, 42)

	// Assert
	assert.NoError(t, err)
	mockQuestionRepo.AssertExpectations(t)
}

func TestQuestionService_Vote_SelfVoteRejected(t *testing.T) {
	// Arrange: 作者给自己投票被拒绝且不落库
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	existing := &domain.Question{ID: 7, AuthorID: 3}
	mockQuestionRepo.On("FindByID", ctx, uint(7)).Return(existing, nil).Once()

	// Act
	err := questionService.Vote(ctx, 7, 3)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrSelfVote))

	mockQuestionRepo.AssertExpectations(t)
	mockQuestionRepo.AssertNotCalled(t, "AddVoter", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuestionService_Vote_RepeatIsNoop(t *testing.T) {
	// Arrange: 重复推荐由联结表幂等吸收，service 层不报错
	mockQuestionRepo := new(mocks.QuestionRepository)
	questionService := service.NewQuestionService(mockQuestionRepo)
	ctx := context.Background()

	existing := &domain.Question{ID: 7, AuthorID: 3}
	mockQuestionRepo.On("FindByID", ctx, uint(7)).Return(existing, nil).Twice()
	mockQuestionRepo.On("AddVoter", ctx, uint(7), uint(42)).Return(nil).Twice()

	// Act
	err1 := questionService.Vote(ctx, 7, 42)
	err2 := questionService.Vote(ctx, 7, 42)

	// Assert
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	mockQuestionRepo.AssertExpectations(t)
}
