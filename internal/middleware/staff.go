package middleware

import (
	"entrehive-backend/internal/service"
	"entrehive-backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StaffMiddleware 确保只有工作人员可以访问某些路由
func StaffMiddleware(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			util.Logger.Warn("用户ID不存在")
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "需要认证",
				"error":   "User ID not found in context",
			})
			c.Abort()
			return
		}

		isStaff, err := userService.IsStaff(userID.(int))
		if err != nil || !isStaff {
			util.Logger.Warn("非工作人员访问",
				zap.Int("user_id", userID.(int)),
				zap.Error(err))
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "需要工作人员权限",
				"error":   "Staff access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
