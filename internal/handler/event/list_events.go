package event

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campuslink/internal/service"
)

// ListEventsResponseData 活动列表响应数据
type ListEventsResponseData struct {
	Events   []EventInfo `json:"events"`    // 活动列表
	Total    int64       `json:"total"`     // 总数
	Page     int64       `json:"page"`      // 当前页
	PageSize int64       `json:"page_size"` // 每页条数
}

// ListEvents 查询活动列表
// @Summary      查询活动列表
// @Description  按开始时间升序查询活动，支持按学院筛选和只看未开始的活动
// @Tags         活动
// @Produce      json
// @Security     BearerAuth
// @Param        college_name  query  string  false  "学院筛选"
// @Param        upcoming      query  bool    false  "只看未开始的活动"
// @Param        page          query  int     false  "页码（默认1）"
// @Param        page_size     query  int     false  "每页条数（默认20，最大100）"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("page_size", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	upcoming := c.Query("upcoming") == "true"

	ctx := c.Request.Context()
	events, total, err := h.eventService.ListEvents(ctx, c.Query("college_name"), upcoming, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "查询活动列表失败",
		})
		return
	}

	infos := make([]EventInfo, 0, len(events))
	for _, e := range events {
		infos = append(infos, toEventInfo(e))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": ListEventsResponseData{
			Events:   infos,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		},
	})
}

// GetEvent 查询活动详情
// @Summary      查询活动详情
// @Tags         活动
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "活动ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	ctx := c.Request.Context()
	e, err := h.eventService.GetEvent(ctx, c.Param("id"))
	if err != nil {
		if err == service.ErrEventNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40404,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "查询活动失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toEventInfo(e),
	})
}
