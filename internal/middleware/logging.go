package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware 日志中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		// 签名下载地址的 query 中包含令牌，不写入日志
		userID, _ := GetUserID(c)
		log.Printf("[%s] %s | Status: %d | Latency: %v | User: %s",
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			userID,
		)
	}
}
