package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phs9607/mysite/internal/form"
	"github.com/phs9607/mysite/internal/service"
)

// AnswerHandler 负责回答的增删改和推荐
type AnswerHandler struct {
	answerService   *service.AnswerService
	questionService *service.QuestionService
}

// NewAnswerHandler 创建 AnswerHandler 实例
func NewAnswerHandler(answerService *service.AnswerService, questionService *service.QuestionService) *AnswerHandler {
	return &AnswerHandler{
		answerService:   answerService,
		questionService: questionService,
	}
}

// Create 在提问下提交回答。
// 校验失败时回到详情页并回显错误，不产生写入。
func (h *AnswerHandler) Create(c *gin.Context) {
	questionID, ok := idParam(c, "questionID")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	content := c.PostForm("content")
	if errs := form.AnswerSchema.Validate(c.Request.PostForm); errs.Has() {
		question, err := h.questionService.Get(c.Request.Context(), questionID)
		if err != nil {
			HandleServiceError(c, err)
			return
		}
		c.HTML(http.StatusOK, "question_detail.html", gin.H{
			"question": question,
			"errors":   errs,
			"content":  content,
		})
		return
	}

	if _, err := h.answerService.Create(c.Request.Context(), questionID, userID, content); err != nil {
		HandleServiceError(c, err)
		return
	}
	redirectToDetail(c, questionID)
}

// ModifyForm 渲染预填的回答修改表单。非作者跳回详情页并提示无权限。
func (h *AnswerHandler) ModifyForm(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	answer, err := h.answerService.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if answer.AuthorID != userID {
		SetFlash(c, "no permission to modify")
		redirectToDetail(c, answer.QuestionID)
		return
	}

	c.HTML(http.StatusOK, "answer_form.html", gin.H{
		"content": answer.Content,
	})
}

// Modify 处理回答修改提交
func (h *AnswerHandler) Modify(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	content := c.PostForm("content")
	if errs := form.AnswerSchema.Validate(c.Request.PostForm); errs.Has() {
		c.HTML(http.StatusOK, "answer_form.html", gin.H{
			"errors":  errs,
			"content": content,
		})
		return
	}

	_, questionID, err := h.answerService.Modify(c.Request.Context(), id, userID, content)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			SetFlash(c, "no permission to modify")
			redirectToDetail(c, questionID)
			return
		}
		HandleServiceError(c, err)
		return
	}
	redirectToDetail(c, questionID)
}

// Delete 处理回答删除，成功后回到所属提问详情页
func (h *AnswerHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	questionID, err := h.answerService.Delete(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			SetFlash(c, "no permission to delete")
			redirectToDetail(c, questionID)
			return
		}
		HandleServiceError(c, err)
		return
	}
	redirectToDetail(c, questionID)
}

// Vote 处理回答推荐。自己的回答不能推荐；重复推荐是 no-op。
func (h *AnswerHandler) Vote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	questionID, err := h.answerService.Vote(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrSelfVote) {
			SetFlash(c, "cannot vote on your own post")
			redirectToDetail(c, questionID)
			return
		}
		HandleServiceError(c, err)
		return
	}
	redirectToDetail(c, questionID)
}
