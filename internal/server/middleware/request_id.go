package middleware

import (
	"github.com/gin-gonic/gin"

	"campuslink/internal/pkg/id"
)

// RequestIDHeader 请求ID的Header名
const RequestIDHeader = "X-Request-ID"

// RequestID 请求ID中间件
// 客户端传入的 X-Request-ID 透传，否则生成新的UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = id.New()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}
