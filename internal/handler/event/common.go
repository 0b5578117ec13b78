package event

import (
	"time"

	"campuslink/internal/model/event"
	httputil "campuslink/internal/pkg/http"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// EventInfo 活动信息 DTO
type EventInfo struct {
	ID              string `json:"id"`                  // 活动ID
	OrganizerID     string `json:"organizer_id"`        // 组织者ID
	CollegeName     string `json:"college_name"`        // 学院
	Title           string `json:"title"`               // 标题
	Description     string `json:"description"`         // 描述
	Venue           string `json:"venue,omitempty"`     // 地点
	StartsAt        string `json:"starts_at"`           // 开始时间
	Capacity        int    `json:"capacity"`            // 报名上限（0表示不限）
	RegisteredCount int    `json:"registered_count"`    // 已报名人数
	IsFull          bool   `json:"is_full"`             // 是否已满
	CreatedAt       string `json:"created_at"`          // 创建时间
}

// toEventInfo 将活动实体转换为 EventInfo DTO
func toEventInfo(e *event.Event) EventInfo {
	return EventInfo{
		ID:              e.ID,
		OrganizerID:     e.OrganizerID,
		CollegeName:     e.CollegeName,
		Title:           e.Title,
		Description:     e.Description,
		Venue:           e.Venue,
		StartsAt:        e.StartsAt.Format(time.RFC3339),
		Capacity:        e.Capacity,
		RegisteredCount: e.RegisteredCount(),
		IsFull:          e.IsFull(),
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
}
