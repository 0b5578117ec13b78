package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUser 查询用户详情
// @Summary      查询用户详情
// @Description  管理员查询单个用户的详细信息
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "用户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/admin/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.adminService.GetUser(ctx, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toUserInfo(user),
	})
}
