package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
)

// SuspendUser 停用用户账号
// @Summary      停用用户
// @Description  管理员停用用户账号并吊销其所有Refresh Token
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "用户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/admin/users/{id}/suspend [put]
func (h *Handler) SuspendUser(c *gin.Context) {
	acting, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	ctx := c.Request.Context()
	user, err := h.adminService.SuspendUser(ctx, c.Param("id"), acting)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "用户已停用",
		"data":    toUserInfo(user),
	})
}

// ReactivateUser 恢复已停用的用户账号
// @Summary      恢复用户
// @Description  管理员恢复已停用的用户账号
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "用户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/admin/users/{id}/reactivate [put]
func (h *Handler) ReactivateUser(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.adminService.ReactivateUser(ctx, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "用户已恢复",
		"data":    toUserInfo(user),
	})
}
