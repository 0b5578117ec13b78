package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListUsersResponseData 用户列表响应数据
type ListUsersResponseData struct {
	Users    []UserInfo `json:"users"`     // 用户列表
	Total    int64      `json:"total"`     // 总数
	Page     int64      `json:"page"`      // 当前页
	PageSize int64      `json:"page_size"` // 每页条数
}

// ListUsers 查询用户列表
// @Summary      查询用户列表
// @Description  管理员分页查询用户，支持按角色、账号状态和学院筛选
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        role            query  string  false  "角色筛选：student/contributor/admin"
// @Param        account_status  query  string  false  "状态筛选"
// @Param        college_name    query  string  false  "学院筛选"
// @Param        page            query  int     false  "页码（默认1）"
// @Param        page_size       query  int     false  "每页条数（默认20，最大100）"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("page_size", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	ctx := c.Request.Context()
	users, total, err := h.adminService.ListUsers(ctx,
		c.Query("role"), c.Query("account_status"), c.Query("college_name"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "查询用户列表失败",
		})
		return
	}

	infos := make([]UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, toUserInfo(user))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": ListUsersResponseData{
			Users:    infos,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		},
	})
}
