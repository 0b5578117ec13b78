package contributor

import (
	"campuslink/internal/service"
)

// Handler Contributor申请处理器
type Handler struct {
	contributorService service.ContributorService
}

// NewHandler 创建Contributor申请处理器
func NewHandler(contributorService service.ContributorService) *Handler {
	return &Handler{
		contributorService: contributorService,
	}
}
