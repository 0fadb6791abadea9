package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/repository"
)

// PageSize 是问题列表每页的条数。
const PageSize = 10

// BoardPage 是一页问题列表及分页信息，交给模板渲染。
type BoardPage struct {
	Questions  []domain.Question
	Page       int
	TotalPages int
	Total      int64
	Keyword    string
	Sort       repository.SortOrder
}

// HasPrev 报告是否存在上一页。
func (p *BoardPage) HasPrev() bool { return p.Page > 1 }

// HasNext 报告是否存在下一页。
func (p *BoardPage) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage 返回上一页页码，供模板拼链接。
func (p *BoardPage) PrevPage() int { return p.Page - 1 }

// NextPage 返回下一页页码，供模板拼链接。
func (p *BoardPage) NextPage() int { return p.Page + 1 }

// QuestionService 负责提问的列表、详情、增删改和推荐。
type QuestionService struct {
	questionRepo repository.QuestionRepository
}

// NewQuestionService 创建 QuestionService 实例。
func NewQuestionService(questionRepo repository.QuestionRepository) *QuestionService {
	if questionRepo == nil {
		panic("QuestionRepository cannot be nil for QuestionService")
	}
	return &QuestionService{questionRepo: questionRepo}
}

// normalizeSort 把用户输入的排序键收敛到已知值，未知值回落到 recent。
func normalizeSort(so string) repository.SortOrder {
	switch repository.SortOrder(so) {
	case repository.SortRecommend:
		return repository.SortRecommend
	case repository.SortPopular:
		return repository.SortPopular
	default:
		return repository.SortRecent
	}
}

// Board 返回一页问题列表。
// page 越界时收敛到最近的合法页，永远不报 "not found"。
func (s *QuestionService) Board(ctx context.Context, page int, keyword, so string) (*BoardPage, error) {
	sort := normalizeSort(so)

	total, err := s.questionRepo.Count(ctx, keyword)
	if err != nil {
		logrus.WithError(err).Error("Board: failed to count questions")
		return nil, ErrInternalServer
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1 // 空列表也有第 1 页
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	questions, err := s.questionRepo.List(ctx, repository.ListQuery{
		Offset:  (page - 1) * PageSize,
		Limit:   PageSize,
		Keyword: keyword,
		Sort:    sort,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"page": page, "kw": keyword, "so": sort}).
			Error("Board: failed to list questions")
		return nil, ErrInternalServer
	}

	return &BoardPage{
		Questions:  questions,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		Keyword:    keyword,
		Sort:       sort,
	}, nil
}

// Get 返回提问详情 (含作者、回答、评论)。
func (s *QuestionService) Get(ctx context.Context, id uint) (*domain.Question, error) {
	question, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return nil, ErrNotFound
		}
		logrus.WithError(err).WithField("question_id", id).Error("Get: repository error")
		return nil, ErrInternalServer
	}
	return question, nil
}

// Create 以 authorID 的身份创建提问。
func (s *QuestionService) Create(ctx context.Context, authorID uint, subject, content string) (*domain.Question, error) {
	question := &domain.Question{
		Subject:    subject,
		Content:    content,
		AuthorID:   authorID,
		CreateDate: time.Now(),
	}
	if err := s.questionRepo.Save(ctx, question); err != nil {
		logrus.WithError(err).WithField("author_id", authorID).Error("Create: failed to save question")
		return nil, ErrInternalServer
	}
	logrus.WithFields(logrus.Fields{"question_id": question.ID, "author_id": authorID}).
		Info("Question created")
	return question, nil
}

// Modify 更新提问内容。只有原作者可以修改；作者字段不变。
func (s *QuestionService) Modify(ctx context.Context, id, editorID uint, subject, content string) (*domain.Question, error) {
	question, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if question.AuthorID != editorID {
		logrus.WithFields(logrus.Fields{"question_id": id, "editor_id": editorID}).
			Warn("Modify: permission denied")
		return nil, ErrPermissionDenied
	}

	now := time.Now()
	question.Subject = subject
	question.Content = content
	question.ModifyDate = &now
	if err := s.questionRepo.Save(ctx, question); err != nil {
		logrus.WithError(err).WithField("question_id", id).Error("Modify: failed to save question")
		return nil, ErrInternalServer
	}
	return question, nil
}

// Delete 删除提问，级联删除回答和评论。只有原作者可以删除。
func (s *QuestionService) Delete(ctx context.Context, id, editorID uint) error {
	question, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if question.AuthorID != editorID {
		logrus.WithFields(logrus.Fields{"question_id": id, "editor_id": editorID}).
			Warn("Delete: permission denied")
		return ErrPermissionDenied
	}

	if err := s.questionRepo.Delete(ctx, id); err != nil {
		logrus.WithError(err).WithField("question_id", id).Error("Delete: repository error")
		return ErrInternalServer
	}
	logrus.WithField("question_id", id).Info("Question deleted")
	return nil
}

// Vote 以 voterID 的身份推荐提问。
// 作者不能推荐自己的提问；重复推荐是 no-op。
func (s *QuestionService) Vote(ctx context.Context, id, voterID uint) error {
	question, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if question.AuthorID == voterID {
		return ErrSelfVote
	}

	if err := s.questionRepo.AddVoter(ctx, id, voterID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"question_id": id, "voter_id": voterID}).
			Error("Vote: failed to add voter")
		return ErrInternalServer
	}
	return nil
}
