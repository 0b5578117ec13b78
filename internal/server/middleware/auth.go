package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campuslink/internal/model/auth"
	"campuslink/internal/pkg/ctxutil"
	"campuslink/internal/pkg/jwt"
	"campuslink/internal/pkg/rolestate"
	"campuslink/internal/service"
)

// currentUserKey gin context 中存放当前用户的key
const currentUserKey = "current_user"

// Auth JWT 认证中间件
// 从 Authorization header 中提取 Bearer token，验证后加载用户注入 context。
// 已停用的账号在这里直接拦截，不等Token过期
func Auth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从 Header 获取 Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40101,
				"message": "未授权",
			})
			c.Abort()
			return
		}

		// 提取 Token（Bearer {token}）
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40101,
				"message": "Invalid authorization header",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 验证 Token 并加载用户
		user, err := authService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			status := http.StatusUnauthorized
			errorCode := 40102
			message := "Token无效或已过期"
			if err == jwt.ErrExpiredToken {
				errorCode = 40102
			}
			if err == service.ErrUserSuspended {
				status = http.StatusForbidden
				errorCode = 40301
				message = err.Error()
			}
			c.JSON(status, gin.H{
				"code":    errorCode,
				"message": message,
			})
			c.Abort()
			return
		}

		// 将用户信息注入到 context
		ctx := ctxutil.WithUser(c.Request.Context(), user.ID, string(user.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Set(currentUserKey, user)

		c.Next()
	}
}

// RequireAdmin 管理员权限中间件，必须在 Auth 之后使用
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !rolestate.CanModerate(user) {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    40301,
				"message": "需要管理员权限",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 获取 Auth 中间件注入的当前用户
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*auth.User)
	return user, ok
}
