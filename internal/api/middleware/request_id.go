package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID 请求 ID 的上下文键名
const CtxRequestID = "request_id"

// requestIDHeader 请求 ID 的响应头
const requestIDHeader = "X-Request-ID"

// RequestID 为每个请求生成（或透传）请求 ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(CtxRequestID, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}
