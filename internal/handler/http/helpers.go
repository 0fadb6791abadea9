// Package http 提供 gin 请求处理器，每个用户动作一个方法。
// 处理器只负责参数解析、调用 service 和选择页面/跳转目标，
// 页面渲染交给模板层。
package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/phs9607/mysite/internal/middleware"
)

// idParam 解析路径里的数字 ID 参数，非法值按 "不存在" 处理
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// sessionUserID 取出登录用户 ID。
// LoginRequired 之后不存在才会走到 fallback，属于服务端配置错误。
func sessionUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		logrus.Error("handler: user_id not found in context, middleware missing or failed?")
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		c.Abort()
		return 0, false
	}
	return userID, true
}

// detailURL 拼出提问详情页地址
func detailURL(questionID uint) string {
	return fmt.Sprintf("/question/detail/%d", questionID)
}

// redirectToDetail 跳转到提问详情页
func redirectToDetail(c *gin.Context, questionID uint) {
	c.Redirect(http.StatusFound, detailURL(questionID))
}
