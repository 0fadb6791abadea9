package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/phs9607/mysite/internal/service"
)

// BoardHandler 负责首页和问题列表页
type BoardHandler struct {
	questionService *service.QuestionService
}

// NewBoardHandler 创建 BoardHandler 实例
func NewBoardHandler(questionService *service.QuestionService) *BoardHandler {
	return &BoardHandler{questionService: questionService}
}

// Index 渲染首页
func (h *BoardHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// Board 渲染问题列表页。
// 查询参数：page (默认 1)、kw (搜索词)、so (排序: recommend|popular|recent)。
// 非法或越界的 page 收敛到最近的合法页，不报错。
func (h *BoardHandler) Board(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	kw := c.Query("kw")
	so := c.DefaultQuery("so", "recent")

	boardPage, err := h.questionService.Board(c.Request.Context(), page, kw, so)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "question_list.html", gin.H{
		"question_list": boardPage.Questions,
		"paging":        boardPage,
		"page":          boardPage.Page,
		"kw":            kw,
		"so":            string(boardPage.Sort),
		"flash":         PopFlash(c),
	})
}
