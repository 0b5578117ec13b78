package contributor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// GetMyApplication 查询自己的申请
// @Summary      查询我的申请
// @Description  查询当前用户的Contributor申请及审核状态
// @Tags         Contributor申请
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/contributor/my-application [get]
func (h *Handler) GetMyApplication(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	ctx := c.Request.Context()
	app, err := h.contributorService.GetMyApplication(ctx, user.ID)
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
