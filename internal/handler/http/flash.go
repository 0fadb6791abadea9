package http

import (
	"net/url"

	"github.com/gin-gonic/gin"
)

// flashCookieName 是一次性提示消息的 cookie 名
const flashCookieName = "flash"

// SetFlash 写入一条一次性提示消息，下一次页面渲染时取出。
// 对应 Django messages 的用法：跳转 + 页面顶部的提示条。
func SetFlash(c *gin.Context, message string) {
	c.SetCookie(flashCookieName, url.QueryEscape(message), 60, "/", "", false, true)
}

// PopFlash 取出并清除提示消息，没有时返回空串。
func PopFlash(c *gin.Context) string {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}
