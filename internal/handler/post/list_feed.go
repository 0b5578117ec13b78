package post

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FeedResponseData 信息流响应数据
type FeedResponseData struct {
	Posts    []PostInfo `json:"posts"`     // 帖子列表
	Total    int64      `json:"total"`     // 总数
	Page     int64      `json:"page"`      // 当前页
	PageSize int64      `json:"page_size"` // 每页条数
}

// ListFeed 查询信息流
// @Summary      查询信息流
// @Description  按学院查询动态信息流，不传学院时返回全局信息流
// @Tags         动态
// @Produce      json
// @Security     BearerAuth
// @Param        college_name  query  string  false  "学院筛选，为空时返回全局信息流"
// @Param        page          query  int     false  "页码（默认1）"
// @Param        page_size     query  int     false  "每页条数（默认20，最大100）"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/posts [get]
func (h *Handler) ListFeed(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("page_size", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	ctx := c.Request.Context()
	posts, total, err := h.postService.ListFeed(ctx, c.Query("college_name"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "查询信息流失败",
		})
		return
	}

	infos := make([]PostInfo, 0, len(posts))
	for _, p := range posts {
		infos = append(infos, toPostInfo(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": FeedResponseData{
			Posts:    infos,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		},
	})
}
