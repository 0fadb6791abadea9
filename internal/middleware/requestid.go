package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 是回写请求 ID 的响应头
const RequestIDHeader = "X-Request-ID"

// RequestID 给每个请求分配一个 uuid，写入上下文和响应头，用于日志关联。
// 客户端已携带时沿用客户端的值。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}
