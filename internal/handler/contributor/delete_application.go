package contributor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/service"
)

// DeleteApplication 删除申请记录（管理员）
// @Summary      删除申请
// @Description  管理员删除申请记录，申请人的当前角色不受影响，删除后可重新申请
// @Tags         Contributor申请
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "申请ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/contributor/applications/{id} [delete]
func (h *Handler) DeleteApplication(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.contributorService.DeleteApplication(ctx, c.Param("id")); err != nil {
		if err == service.ErrApplicationNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40402,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "申请已删除",
	})
}
