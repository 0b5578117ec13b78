package event

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// CreateEventRequest 创建活动请求
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,max=200"`       // 标题（必填）
	Description string    `json:"description,omitempty" binding:"max=5000"` // 描述（可选）
	Venue       string    `json:"venue,omitempty"`                        // 地点（可选）
	StartsAt    time.Time `json:"starts_at" binding:"required"`           // 开始时间（必填，RFC3339）
	Capacity    int       `json:"capacity,omitempty" binding:"omitempty,min=0"` // 报名上限（0表示不限）
}

// CreateEvent 创建活动
// @Summary      创建活动
// @Description  Contributor或管理员创建学院活动
// @Tags         活动
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateEventRequest  true  "活动内容"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	e, err := h.eventService.CreateEvent(ctx, user, &service.CreateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
	})
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := 50001

		switch err {
		case service.ErrNotPublisher:
			code = http.StatusForbidden
			errorCode = 40305
		case service.ErrTitleRequired, service.ErrInvalidStartTime:
			code = http.StatusBadRequest
			errorCode = 40011
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "活动已创建",
		"data":    toEventInfo(e),
	})
}
