package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"malaria-http-service/config"
	"malaria-http-service/models"
	"malaria-http-service/services"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// requireRoles 校验令牌并检查角色是否在允许列表内。
// 管理员始终放行
func requireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		tokenString := extractToken(authHeader)
		token, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid token: "+err.Error())
			return
		}
		if !token.Valid {
			abortUnauthorized(c, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		role, exists := claims["role"].(string)
		if !exists {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		permitted := role == models.RoleAdmin
		for _, r := range allowed {
			if role == r {
				permitted = true
				break
			}
		}
		if !permitted {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Insufficient permissions: requires one of roles " + strings.Join(allowed, ", "),
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 存储claims到上下文
		c.Set("userID", claims["user_id"])
		c.Set("username", claims["username"])
		c.Set("role", role)
		c.Set("claims", claims)
		c.Next()
	}
}

// AuthenticateAdmin 验证系统管理员权限
func AuthenticateAdmin() gin.HandlerFunc {
	return requireRoles(models.RoleAdmin)
}

// AuthenticateDoctor 验证医生权限
func AuthenticateDoctor() gin.HandlerFunc {
	return requireRoles(models.RoleDoctor)
}

// AuthenticateLab 验证检验员权限
func AuthenticateLab() gin.HandlerFunc {
	return requireRoles(models.RoleLab)
}

// AuthenticateOffice 验证前台员工权限
func AuthenticateOffice() gin.HandlerFunc {
	return requireRoles(models.RoleOffice)
}

// AuthenticateClinician 验证医生或检验员权限，用于诊断与报告接口
func AuthenticateClinician() gin.HandlerFunc {
	return requireRoles(models.RoleDoctor, models.RoleLab)
}

// Authentication 通用的认证中间件，任何已知角色均可访问
func Authentication() gin.HandlerFunc {
	return requireRoles(models.RoleDoctor, models.RoleLab, models.RoleOffice)
}
