package event

import (
	"campuslink/internal/service"
)

// Handler 活动处理器
type Handler struct {
	eventService *service.EventService
}

// NewHandler 创建活动处理器
func NewHandler(eventService *service.EventService) *Handler {
	return &Handler{
		eventService: eventService,
	}
}
