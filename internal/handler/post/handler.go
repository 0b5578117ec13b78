package post

import (
	"campuslink/internal/service"
)

// Handler 动态处理器
type Handler struct {
	postService *service.PostService
}

// NewHandler 创建动态处理器
func NewHandler(postService *service.PostService) *Handler {
	return &Handler{
		postService: postService,
	}
}
