package admin

import (
	"campuslink/internal/service"
)

// Handler 管理员用户管理处理器
type Handler struct {
	adminService *service.AdminService
}

// NewHandler 创建管理员处理器
func NewHandler(adminService *service.AdminService) *Handler {
	return &Handler{
		adminService: adminService,
	}
}
