package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// UpdateUserRequest 更新用户请求
// 管理员只能变更角色、账号状态和可用标记，全部可选
type UpdateUserRequest struct {
	Role          string `json:"role,omitempty"`           // 目标角色：student/contributor（admin不可设置）
	AccountStatus string `json:"account_status,omitempty"` // 目标账号状态
	IsActive      *bool  `json:"is_active,omitempty"`      // 账号可用标记
}

// UpdateUser 更新用户角色或账号状态
// @Summary      更新用户
// @Description  管理员变更用户的角色或账号状态，所有变更经过状态机校验
// @Tags         用户管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string             true  "用户ID"
// @Param        request  body  UpdateUserRequest  true  "变更内容"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/admin/users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	acting, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}
	if req.Role == "" && req.AccountStatus == "" && req.IsActive == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "至少指定一项变更",
		})
		return
	}

	ctx := c.Request.Context()
	user, err := h.adminService.UpdateUser(ctx, c.Param("id"), acting, &service.UpdateUserParams{
		Role:          req.Role,
		AccountStatus: req.AccountStatus,
		IsActive:      req.IsActive,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "用户已更新",
		"data":    toUserInfo(user),
	})
}
