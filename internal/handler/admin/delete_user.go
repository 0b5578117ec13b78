package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
)

// DeleteUser 删除用户
// @Summary      删除用户
// @Description  管理员删除用户及其帖子、活动、报名、申请和Token等所有关联数据
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "用户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/admin/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	acting, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.adminService.DeleteUser(ctx, c.Param("id"), acting); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "用户已删除",
	})
}
