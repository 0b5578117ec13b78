package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
)

// VerifyUser 管理员手动验证用户
// @Summary      验证用户
// @Description  管理员手动将用户置为已验证，跳过邮箱OTP流程
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "用户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/admin/users/{id}/verify [put]
func (h *Handler) VerifyUser(c *gin.Context) {
	acting, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	ctx := c.Request.Context()
	user, err := h.adminService.VerifyUser(ctx, c.Param("id"), acting)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "用户已验证",
		"data":    toUserInfo(user),
	})
}
