package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// userIDKey 上下文中保存 owner id 的 key
const userIDKey = "user_id"

// TokenValidator 校验令牌并返回用户 ID
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// RequireAuth 要求有效认证的中间件
// 必须提供有效的 JWT token，否则返回 401
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithMessage(c, http.StatusUnauthorized, "user not authenticated")
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortWithMessage(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		userID, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			abortWithMessage(c, http.StatusUnauthorized, "user not authenticated")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID 从上下文获取当前用户ID
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// abortWithMessage 以统一的失败响应结束请求
func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"ok":      false,
		"message": msg,
		"error":   msg,
		"data":    nil,
	})
}
