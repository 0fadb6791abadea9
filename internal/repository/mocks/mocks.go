// Package mocks 提供 repository 接口的 testify mock 实现，只用于测试。
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
)

// UserRepository 是 repository.UserRepository 的 mock
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *UserRepository) Save(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// QuestionRepository 是 repository.QuestionRepository 的 mock
type QuestionRepository struct {
	mock.Mock
}

func (m *QuestionRepository) FindByID(ctx context.Context, id uint) (*domain.Question, error) {
	args := m.Called(ctx, id)
	question, _ := args.Get(0).(*domain.Question)
	return question, args.Error(1)
}

func (m *QuestionRepository) Count(ctx context.Context, keyword string) (int64, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0).(int64), args.Error(1)
}

func (m *QuestionRepository) List(ctx context.Context, q repository.ListQuery) ([]domain.Question, error) {
	args := m.Called(ctx, q)
	questions, _ := args.Get(0).([]domain.Question)
	return questions, args.Error(1)
}

func (m *QuestionRepository) Save(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *QuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *QuestionRepository) AddVoter(ctx context.Context, questionID, userID uint) error {
	args := m.Called(ctx, questionID, userID)
	return args.Error(0)
}

// AnswerRepository 是 repository.AnswerRepository 的 mock
type AnswerRepository struct {
	mock.Mock
}

func (m *AnswerRepository) FindByID(ctx context.Context, id uint) (*domain.Answer, error) {
	args := m.Called(ctx, id)
	answer, _ := args.Get(0).(*domain.Answer)
	return answer, args.Error(1)
}

func (m *AnswerRepository) Save(ctx context.Context, answer *domain.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *AnswerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AnswerRepository) AddVoter(ctx context.Context, answerID, userID uint) error {
	args := m.Called(ctx, answerID, userID)
	return args.Error(0)
}

// CommentRepository 是 repository.CommentRepository 的 mock
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) FindByID(ctx context.Context, id uint) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	comment, _ := args.Get(0).(*domain.Comment)
	return comment, args.Error(1)
}

func (m *CommentRepository) Save(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *CommentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// NotificationRepository 是 repository.NotificationRepository 的 mock
type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) FindByID(ctx context.Context, id uint) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(*domain.Notification)
	return n, args.Error(1)
}

func (m *NotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepository) ListForUser(ctx context.Context, userID uint) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.Notification)
	return list, args.Error(1)
}

func (m *NotificationRepository) PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
