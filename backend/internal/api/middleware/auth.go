package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"hospital-asset/backend/pkg/jwt"
	"hospital-asset/backend/pkg/response"
)

// TokenChecker 查询 jti 是否已被吊销
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// blacklist 为 nil 或查询出错时降级放行（与 RateLimit 策略一致）
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthenticated, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, response.CodeUnauthenticated, "认证头格式无效")
			c.Abort()
			return
		}

		authenticate(c, jwtMgr, blacklist, parts[1])
	}
}

// JWTAuthQuery 从查询参数 token 读取 Access Token
// 仅用于浏览器无法设置请求头的 WebSocket 握手
func JWTAuthQuery(jwtMgr *jwt.Manager, blacklist TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			response.Unauthorized(c, response.CodeUnauthenticated, "缺少 token 参数")
			c.Abort()
			return
		}

		authenticate(c, jwtMgr, blacklist, token)
	}
}

func authenticate(c *gin.Context, jwtMgr *jwt.Manager, blacklist TokenChecker, token string) {
	claims, err := jwtMgr.ParseToken(token)
	if err != nil {
		response.Unauthorized(c, response.CodeUnauthenticated, "Token 无效或已过期")
		c.Abort()
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		response.Unauthorized(c, response.CodeUnauthenticated, "Token 无效或已过期")
		c.Abort()
		return
	}

	if blacklist != nil && claims.ID != "" {
		revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
		if err == nil && revoked {
			response.Unauthorized(c, response.CodeUnauthenticated, "Token 已注销")
			c.Abort()
			return
		}
	}

	// 将用户信息注入上下文
	c.Set("user_id", userID)
	c.Set("role", claims.Role)
	c.Set("department", claims.Department)
	c.Set("claims", claims)

	c.Next()
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, response.CodeForbidden, "无权限访问")
		c.Abort()
	}
}
