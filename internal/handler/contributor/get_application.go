package contributor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/service"
)

// GetApplication 查询单份申请（管理员）
// @Summary      查询申请详情
// @Description  管理员查询单份Contributor申请的详细信息
// @Tags         Contributor申请
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "申请ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/contributor/applications/{id} [get]
func (h *Handler) GetApplication(c *gin.Context) {
	ctx := c.Request.Context()
	app, err := h.contributorService.GetApplication(ctx, c.Param("id"))
	if err != nil {
		if err == service.ErrApplicationNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40402,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "查询申请失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toApplicationInfo(app),
	})
}
