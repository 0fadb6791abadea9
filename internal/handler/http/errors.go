package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/phs9607/mysite/internal/service"
)

// HandleServiceError 把 service 错误映射为错误页面。
// 权限和自荐错误带跳转语义，由各 handler 在调用点处理，不走这里。
func HandleServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		NotFoundPage(c)
		return
	}
	logrus.WithError(err).Error("Unhandled internal server error")
	c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
}

// NotFoundPage 渲染 404 页面
func NotFoundPage(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{})
}
