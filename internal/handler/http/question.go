package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phs9607/mysite/internal/form"
	"github.com/phs9607/mysite/internal/service"
)

// QuestionHandler 负责提问的详情、增删改和推荐
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler 创建 QuestionHandler 实例
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// Detail 渲染提问详情页 (含回答和评论)
func (h *QuestionHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "question_detail.html", gin.H{
		"question": question,
		"flash":    PopFlash(c),
	})
}

// CreateForm 渲染空白的提问表单
func (h *QuestionHandler) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "question_form.html", gin.H{})
}

// Create 处理提问提交。
// 校验失败时回显表单和字段错误，不产生写入。
func (h *QuestionHandler) Create(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	subject := c.PostForm("subject")
	content := c.PostForm("content")
	if errs := form.QuestionSchema.Validate(c.Request.PostForm); errs.Has() {
		c.HTML(http.StatusOK, "question_form.html", gin.H{
			"errors":  errs,
			"subject": subject,
			"content": content,
		})
		return
	}

	if _, err := h.questionService.Create(c.Request.Context(), userID, subject, content); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/board")
}

// ModifyForm 渲染预填的修改表单。非作者跳回详情页并提示无权限。
func (h *QuestionHandler) ModifyForm(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if question.AuthorID != userID {
		SetFlash(c, "no permission to modify")
		redirectToDetail(c, id)
		return
	}

	c.HTML(http.StatusOK, "question_form.html", gin.H{
		"subject": question.Subject,
		"content": question.Content,
	})
}

// Modify 处理修改提交
func (h *QuestionHandler) Modify(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	subject := c.PostForm("subject")
	content := c.PostForm("content")
	if errs := form.QuestionSchema.Validate(c.Request.PostForm); errs.Has() {
		c.HTML(http.StatusOK, "question_form.html", gin.H{
			"errors":  errs,
			"subject": subject,
			"content": content,
		})
		return
	}

	if _, err := h.questionService.Modify(c.Request.Context(), id, userID, subject, content); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			SetFlash(c, "no permission to modify")
			redirectToDetail(c, id)
			return
		}
		HandleServiceError(c, err)
		return
	}
	redirectToDetail(c, id)
}

// Delete 处理删除，成功后回到列表页
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			SetFlash(c, "no permission to delete")
			redirectToDetail(c, id)
			return
		}
		HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/board")
}

// Vote 处理推荐。自己的提问不能推荐；重复推荐是 no-op。
func (h *QuestionHandler) Vote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	if err := h.questionService.Vote(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrSelfVote) {
			SetFlash(c, "cannot vote on your own post")
			redirectToDetail(c, id)
			return
		}
		HandleServiceError(c, err)
		return
	}
	redirectToDetail(c, id)
}
