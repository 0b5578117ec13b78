package contributor

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListApplicationsResponseData 申请列表响应数据
type ListApplicationsResponseData struct {
	Applications []ApplicationInfo `json:"applications"` // 申请列表
	Total        int64             `json:"total"`        // 总数
	Page         int64             `json:"page"`         // 当前页
	PageSize     int64             `json:"page_size"`    // 每页条数
}

// ListApplications 查询申请列表（管理员）
// @Summary      查询申请列表
// @Description  管理员分页查询Contributor申请，支持按状态和学院筛选
// @Tags         Contributor申请
// @Produce      json
// @Security     BearerAuth
// @Param        status        query  string  false  "状态筛选：pending/approved/rejected"
// @Param        college_name  query  string  false  "学院筛选"
// @Param        page          query  int     false  "页码（默认1）"
// @Param        page_size     query  int     false  "每页条数（默认20，最大100）"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/contributor/applications [get]
func (h *Handler) ListApplications(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("page_size", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	ctx := c.Request.Context()
	apps, total, err := h.contributorService.ListApplications(ctx,
		c.Query("status"), c.Query("college_name"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "查询申请列表失败",
		})
		return
	}

	infos := make([]ApplicationInfo, 0, len(apps))
	for _, app := range apps {
		infos = append(infos, toApplicationInfo(app))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": ListApplicationsResponseData{
			Applications: infos,
			Total:        total,
			Page:         page,
			PageSize:     pageSize,
		},
	})
}
