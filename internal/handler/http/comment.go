package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phs9607/mysite/internal/domain"
	"github.com/phs9607/mysite/internal/form"
	"github.com/phs9607/mysite/internal/service"
)

// CommentHandler 负责提问评论和回答评论的增删改。
// 修改/删除按父级类型拆成独立路由，路由和评论的实际父级不符时按 404 处理。
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler 创建 CommentHandler 实例
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateQuestionCommentForm 渲染空白的提问评论表单
func (h *CommentHandler) CreateQuestionCommentForm(c *gin.Context) {
	c.HTML(http.StatusOK, "comment_form.html", gin.H{})
}

// CreateQuestionComment 在提问下提交评论
func (h *CommentHandler) CreateQuestionComment(c *gin.Context) {
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
	if errs := form.CommentSchema.Validate(c.Request.PostForm); errs.Has() {
		c.HTML(http.StatusOK, "comment_form.html", gin.H{
			"errors":  errs,
			"content": content,
		})
		return
	}

	if _, err := h.commentService.CreateForQuestion(c.Request.Context(), questionID, userID, content); err != nil {
		HandleServiceError(c, err)
		return
	}
	redirectToDetail(c, questionID)
}

// CreateAnswerCommentForm 渲染空白的回答评论表单
func (h *CommentHandler) CreateAnswerCommentForm(c *gin.Context) {
	c.HTML(http.StatusOK, "comment_form.html", gin.H{})
}

// CreateAnswerComment 在回答下提交评论
func (h *CommentHandler) CreateAnswerComment(c *gin.Context) {
	answerID, ok := idParam(c, "answerID")
	if !ok {
		NotFoundPage(c)
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	content := c.PostForm("content")
	if errs := form.CommentSchema.Validate(c.Request.PostForm); errs.Has() {
		c.HTML(http.StatusOK, "comment_form.html", gin.H{
			"errors":  errs,
			"content": content,
		})
		return
	}

	_, questionID, err := h.commentService.CreateForAnswer(c.Request.Context(), answerID, userID, content)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	redirectToDetail(c, questionID)
}

// ModifyQuestionCommentForm 渲染提问评论的修改表单
func (h *CommentHandler) ModifyQuestionCommentForm(c *gin.Context) {
	h.modifyForm(c, true)
}

// ModifyAnswerCommentForm 渲染回答评论的修改表单
func (h *CommentHandler) ModifyAnswerCommentForm(c *gin.Context) {
	h.modifyForm(c, false)
}

func (h *CommentHandler) modifyForm(c *gin.Context, onQuestion bool) {
	comment, questionID, ok := h.loadComment(c, onQuestion)
	if !ok {
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	if comment.AuthorID != userID {
		SetFlash(c, "no permission to modify")
		redirectToDetail(c, questionID)
		return
	}

	c.HTML(http.StatusOK, "comment_form.html", gin.H{
		"content": comment.Content,
	})
}

// ModifyQuestionComment 处理提问评论的修改提交
func (h *CommentHandler) ModifyQuestionComment(c *gin.Context) {
	h.modify(c, true)
}

// ModifyAnswerComment 处理回答评论的修改提交
func (h *CommentHandler) ModifyAnswerComment(c *gin.Context) {
	h.modify(c, false)
}

func (h *CommentHandler) modify(c *gin.Context, onQuestion bool) {
	comment, questionID, ok := h.loadComment(c, onQuestion)
	if !ok {
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	content := c.PostForm("content")
	if errs := form.CommentSchema.Validate(c.Request.PostForm); errs.Has() {
		c.HTML(http.StatusOK, "comment_form.html", gin.H{
			"errors":  errs,
			"content": content,
		})
		return
	}

	if _, _, err := h.commentService.Modify(c.Request.Context(), comment.ID, userID, content); err != nil {
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

// DeleteQuestionComment 处理提问评论的删除
func (h *CommentHandler) DeleteQuestionComment(c *gin.Context) {
	h.delete(c, true)
}

// DeleteAnswerComment 处理回答评论的删除。
// 成功后跳转到所属提问的详情页。
func (h *CommentHandler) DeleteAnswerComment(c *gin.Context) {
	h.delete(c, false)
}

func (h *CommentHandler) delete(c *gin.Context, onQuestion bool) {
	comment, questionID, ok := h.loadComment(c, onQuestion)
	if !ok {
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	if _, err := h.commentService.Delete(c.Request.Context(), comment.ID, userID); err != nil {
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

// loadComment 加载评论并校验父级类型与路由一致
func (h *CommentHandler) loadComment(c *gin.Context, onQuestion bool) (*domain.Comment, uint, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		NotFoundPage(c)
		return nil, 0, false
	}

	comment, questionID, err := h.commentService.GetWithParent(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return nil, 0, false
	}
	if comment.OnQuestion() != onQuestion {
		NotFoundPage(c)
		return nil, 0, false
	}
	return comment, questionID, true
}
